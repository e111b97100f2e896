package r3d

import (
	"log"

	"github.com/pkg/errors"

	"github.com/mogaika/orrery/gfx"
)

type Program struct {
	ctx gfx.Context

	Id                           gfx.Program
	VertexShader, FragmentShader gfx.Shader
}

// Delete releases the program and its shaders. Safe to call twice.
func (p *Program) Delete() {
	if p.Id != 0 {
		if p.VertexShader != 0 {
			p.ctx.DetachShader(p.Id, p.VertexShader)
		}
		if p.FragmentShader != 0 {
			p.ctx.DetachShader(p.Id, p.FragmentShader)
		}
		p.ctx.DeleteProgram(p.Id)
		p.Id = 0
	}
	if p.VertexShader != 0 {
		p.ctx.DeleteShader(p.VertexShader)
		p.VertexShader = 0
	}
	if p.FragmentShader != 0 {
		p.ctx.DeleteShader(p.FragmentShader)
		p.FragmentShader = 0
	}
}

// LoadProgram compiles both stages and links them. Nothing is left allocated
// in the context when it fails.
func LoadProgram(ctx gfx.Context, vertexShaderText, fragmentShaderText string) (*Program, error) {
	p := &Program{ctx: ctx}

	if vs, err := LoadShader(ctx, gfx.VertexShader, vertexShaderText); err != nil {
		return nil, errors.Wrap(err, "vertex shader")
	} else {
		p.VertexShader = vs
	}

	if fs, err := LoadShader(ctx, gfx.FragmentShader, fragmentShaderText); err != nil {
		p.Delete()
		return nil, errors.Wrap(err, "fragment shader")
	} else {
		p.FragmentShader = fs
	}

	p.Id = ctx.CreateProgram()
	if p.Id == 0 {
		p.Delete()
		return nil, errors.Wrap(ErrResource, "program")
	}

	ctx.AttachShader(p.Id, p.VertexShader)
	ctx.AttachShader(p.Id, p.FragmentShader)
	ctx.LinkProgram(p.Id)

	if !ctx.ProgramLinked(p.Id) {
		errString := ctx.ProgramInfoLog(p.Id)
		log.Printf("Failed to link program:\n%s", errString)

		p.Delete()
		return nil, errors.Wrapf(ErrLink, "%q", errString)
	}
	return p, nil
}

func MustLoadProgram(ctx gfx.Context, vertexShaderText, fragmentShaderText string) *Program {
	program, err := LoadProgram(ctx, vertexShaderText, fragmentShaderText)
	if err != nil {
		panic(err)
	}
	return program
}

func LoadShader(ctx gfx.Context, kind gfx.ShaderKind, text string) (gfx.Shader, error) {
	shader := ctx.CreateShader(kind)
	if shader == 0 {
		return 0, errors.Wrapf(ErrResource, "%s shader", kind)
	}
	ctx.ShaderSource(shader, text)
	ctx.CompileShader(shader)

	if !ctx.ShaderCompiled(shader) {
		errString := ctx.ShaderInfoLog(shader)
		log.Printf("Failed to compile shader:\n%s", errString)

		ctx.DeleteShader(shader)
		return 0, errors.Wrapf(ErrCompile, "%q", errString)
	}
	return shader, nil
}

// Attrib resolves a vertex attribute that the program must have.
func (p *Program) Attrib(name string) (gfx.Attrib, error) {
	a := p.ctx.AttribLocation(p.Id, name)
	if a < 0 {
		return gfx.NoAttrib, errors.Wrapf(ErrLocation, "attribute %q", name)
	}
	return a, nil
}

// Uniform resolves a uniform that the program must have.
func (p *Program) Uniform(name string) (gfx.Uniform, error) {
	u := p.ctx.UniformLocation(p.Id, name)
	if u < 0 {
		return gfx.NoUniform, errors.Wrapf(ErrLocation, "uniform %q", name)
	}
	return u, nil
}
