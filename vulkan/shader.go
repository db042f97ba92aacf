package vulkan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	vk "github.com/vulkan-go/vulkan"

	"github.com/veldt3d/vkboot/utility/pak"
)

// ShaderStage identifies the pipeline stage a shader module targets
type ShaderStage int

// Recognised shader stages
const (
	VertexStage ShaderStage = iota
	FragmentStage
	UnknownStage
)

const shaderSuffix = ".spv"

// Shader is a compiled shader module loaded onto a device
type Shader struct {
	device *Device
	module vk.ShaderModule
	name   string
	stage  ShaderStage
}

// NewShader creates a shader module from compiled SPIR-V bytes
func (d *Device) NewShader(name string, stage ShaderStage, code []byte) (*Shader, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, fmt.Errorf("shader %q is not valid SPIR-V: %d bytes", name, len(code))
	}

	smci := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    SliceUint32(code),
	}

	var module vk.ShaderModule
	if err := vk.Error(vk.CreateShaderModule(d.device, &smci, nil, &module)); err != nil {
		return nil, errors.New("vk.CreateShaderModule(): " + err.Error())
	}

	return &Shader{device: d, module: module, name: name, stage: stage}, nil
}

// LoadShaderDir walks dir and creates a module for every compiled
// shader it finds. File names follow the name.stage.spv convention;
// anything else is skipped.
func (d *Device) LoadShaderDir(dir string) ([]*Shader, error) {
	var shaders []*Shader
	err := filepath.Walk(dir, func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name, stage, ok := shaderNameStage(f.Name())
		if !ok {
			return nil
		}
		code, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		shader, err := d.NewShader(name, stage, code)
		if err != nil {
			return err
		}
		shaders = append(shaders, shader)
		return nil
	})
	if err != nil {
		destroyShaders(shaders)
		return nil, err
	}
	return shaders, nil
}

// LoadShaderPack reads compiled shaders out of a pak archive, using the
// same name.stage.spv convention as LoadShaderDir.
func (d *Device) LoadShaderPack(path string) ([]*Shader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	archive, err := pak.Open(f)
	if err != nil {
		return nil, err
	}

	var shaders []*Shader
	for _, entry := range archive.Index().Entries {
		name, stage, ok := shaderNameStage(entry.Name)
		if !ok {
			continue
		}
		code, err := archive.ReadFile(entry.Name)
		if err != nil {
			destroyShaders(shaders)
			return nil, err
		}
		shader, err := d.NewShader(name, stage, code)
		if err != nil {
			destroyShaders(shaders)
			return nil, err
		}
		shaders = append(shaders, shader)
	}
	return shaders, nil
}

// shaderNameStage splits a file name of the name.stage.spv form.
func shaderNameStage(filename string) (string, ShaderStage, bool) {
	if !strings.HasSuffix(filename, shaderSuffix) {
		return "", UnknownStage, false
	}
	nodes := strings.Split(strings.TrimSuffix(filename, shaderSuffix), ".")
	if len(nodes) != 2 {
		return "", UnknownStage, false
	}
	switch nodes[1] {
	case "vert":
		return nodes[0], VertexStage, true
	case "frag":
		return nodes[0], FragmentStage, true
	default:
		return "", UnknownStage, false
	}
}

func destroyShaders(shaders []*Shader) {
	for _, shader := range shaders {
		shader.Destroy()
	}
}

// Name returns the shader's base name
func (s *Shader) Name() string {
	return s.name
}

// Stage returns the pipeline stage the module targets
func (s *Shader) Stage() ShaderStage {
	return s.stage
}

// VK exposes the native shader module handle
func (s *Shader) VK() vk.ShaderModule {
	return s.module
}

// Destroy releases the shader module
func (s *Shader) Destroy() {
	vk.DestroyShaderModule(s.device.device, s.module, nil)
}
