// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucore

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
)

// Built-in WGSL stages for the line program.
var (
	//go:embed shaders/line_vert.wgsl
	LineVertexShader string

	//go:embed shaders/line_frag.wgsl
	LineFragmentShader string
)

// Entry point names the program is linked against.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Uniform block layout shared by every stage. Must match Uniforms in
// line_vert.wgsl and line_frag.wgsl.
const (
	UniformColorOffset     = 0
	UniformPointSizeOffset = 16
	UniformBlockSize       = 32
)

// VertexStride is the byte stride of one vec2<f32> position.
const VertexStride = 8

// Program is a compiled and linked line program.
type Program struct {
	// VertexSPIRV and FragmentSPIRV are the naga outputs as 32-bit words.
	VertexSPIRV   []uint32
	FragmentSPIRV []uint32

	// PositionLocation is the shader location of the position attribute.
	PositionLocation uint32

	// UniformGroup and UniformBinding locate the color/point size block.
	UniformGroup   uint32
	UniformBinding uint32
}

// CompileProgram compiles both WGSL stages with naga and links them.
//
// A stage that fails to compile returns *ShaderCompileError and the other
// stage is not linked. Stages that compile but do not agree on entry points,
// the position attribute, inter-stage locations or the uniform block return
// *ProgramLinkError. Linking reads the naga IR of each stage, so comments
// and type names in the source do not affect it.
func CompileProgram(vertexSrc, fragmentSrc string) (*Program, error) {
	vs, err := compileStage(StageVertex, vertexSrc)
	if err != nil {
		return nil, err
	}
	fs, err := compileStage(StageFragment, fragmentSrc)
	if err != nil {
		return nil, err
	}

	prog := &Program{VertexSPIRV: vs.words, FragmentSPIRV: fs.words}
	if err := link(prog, vs.iface, fs.iface); err != nil {
		return nil, err
	}
	return prog, nil
}

// compiledStage is one stage's SPIR-V and the interface reflected from its IR.
type compiledStage struct {
	words []uint32
	iface stageInterface
}

// compileStage runs parse, lower, validate and SPIR-V generation once.
func compileStage(stage Stage, src string) (compiledStage, error) {
	fail := func(log string, err error) (compiledStage, error) {
		return compiledStage{}, &ShaderCompileError{Stage: stage, Log: log, Err: err}
	}
	if strings.TrimSpace(src) == "" {
		return fail("empty shader source", nil)
	}
	ast, err := naga.Parse(src)
	if err != nil {
		return fail(err.Error(), err)
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return fail("lowering error: "+err.Error(), err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return fail("validation error: "+err.Error(), err)
	}
	if len(verrs) > 0 {
		return fail("validation failed: "+verrs[0].Error(), verrs[0])
	}

	// Reflect before the SPIR-V backend runs over the module.
	iface := reflectStage(module, stage)

	spv, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return fail(err.Error(), err)
	}
	if len(spv)%4 != 0 {
		return fail(fmt.Sprintf("SPIR-V output is %d bytes, not a whole number of words", len(spv)), nil)
	}
	return compiledStage{words: spirvWords(spv), iface: iface}, nil
}

// spirvWords converts little-endian SPIR-V bytes to 32-bit words.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return words
}

// stageInterface is what linking needs from one stage's IR.
type stageInterface struct {
	hasEntry bool

	// position is the first vec2<f32> argument with a location.
	position    uint32
	hasPosition bool

	// inputs and outputs are user-defined (@location) inter-stage slots.
	inputs  []uint32
	outputs []uint32

	group, binding uint32
	hasUniforms    bool
}

func reflectStage(m *ir.Module, stage Stage) stageInterface {
	var iface stageInterface
	name, irStage := VertexEntryPoint, ir.StageVertex
	if stage == StageFragment {
		name, irStage = FragmentEntryPoint, ir.StageFragment
	}
	for i := range m.EntryPoints {
		ep := &m.EntryPoints[i]
		if ep.Name != name || ep.Stage != irStage {
			continue
		}
		iface.hasEntry = true
		for _, arg := range ep.Function.Arguments {
			if loc, ok := location(arg.Binding); ok && !iface.hasPosition && isFloatVector(m, arg.Type, ir.Vec2) {
				iface.position, iface.hasPosition = loc, true
			}
			iface.inputs = append(iface.inputs, locations(m, arg.Binding, arg.Type)...)
		}
		if res := ep.Function.Result; res != nil {
			iface.outputs = locations(m, res.Binding, res.Type)
		}
		break
	}
	iface.group, iface.binding, iface.hasUniforms = uniformBlock(m)
	return iface
}

// location returns the @location index of b, if it is one.
func location(b *ir.Binding) (uint32, bool) {
	if b == nil {
		return 0, false
	}
	lb, ok := (*b).(ir.LocationBinding)
	return lb.Location, ok
}

// locations collects the @location indices carried by a binding or, for an
// unbound struct, by its members.
func locations(m *ir.Module, b *ir.Binding, th ir.TypeHandle) []uint32 {
	if loc, ok := location(b); ok {
		return []uint32{loc}
	}
	if b != nil || int(th) >= len(m.Types) {
		return nil
	}
	st, ok := m.Types[th].Inner.(ir.StructType)
	if !ok {
		return nil
	}
	var locs []uint32
	for _, mem := range st.Members {
		if loc, ok := location(mem.Binding); ok {
			locs = append(locs, loc)
		}
	}
	return locs
}

func isFloatVector(m *ir.Module, th ir.TypeHandle, size ir.VectorSize) bool {
	if int(th) >= len(m.Types) {
		return false
	}
	v, ok := m.Types[th].Inner.(ir.VectorType)
	return ok && v.Size == size && isF32(v.Scalar)
}

func isF32(s ir.ScalarType) bool {
	return s.Kind == ir.ScalarFloat && s.Width == 4
}

// uniformBlock finds a bound uniform variable whose struct holds a
// vec4<f32> color member laid out before an f32 point_size member.
func uniformBlock(m *ir.Module) (group, binding uint32, ok bool) {
	for _, gv := range m.GlobalVariables {
		if gv.Space != ir.SpaceUniform || gv.Binding == nil || int(gv.Type) >= len(m.Types) {
			continue
		}
		st, isStruct := m.Types[gv.Type].Inner.(ir.StructType)
		if !isStruct {
			continue
		}
		var color, size *ir.StructMember
		for i := range st.Members {
			mem := &st.Members[i]
			switch mem.Name {
			case "color":
				if isFloatVector(m, mem.Type, ir.Vec4) {
					color = mem
				}
			case "point_size":
				if int(mem.Type) < len(m.Types) {
					if sc, isScalar := m.Types[mem.Type].Inner.(ir.ScalarType); isScalar && isF32(sc) {
						size = mem
					}
				}
			}
		}
		if color == nil || size == nil || color.Offset > size.Offset {
			continue
		}
		return gv.Binding.Group, gv.Binding.Binding, true
	}
	return 0, 0, false
}

func link(prog *Program, vs, fs stageInterface) error {
	if !vs.hasEntry {
		return linkErrorf("vertex entry point %q not found", VertexEntryPoint)
	}
	if !fs.hasEntry {
		return linkErrorf("fragment entry point %q not found", FragmentEntryPoint)
	}
	if !vs.hasPosition {
		return linkErrorf("vertex stage has no vec2<f32> position attribute")
	}
	prog.PositionLocation = vs.position

	// Every location the fragment stage reads must be written by the vertex stage.
	for _, in := range fs.inputs {
		if !slices.Contains(vs.outputs, in) {
			return linkErrorf("fragment input @location(%d) is not written by the vertex stage", in)
		}
	}

	group, binding := vs.group, vs.binding
	switch {
	case !vs.hasUniforms && !fs.hasUniforms:
		return linkErrorf("no stage declares a uniform block with color and point_size")
	case vs.hasUniforms && fs.hasUniforms && (vs.group != fs.group || vs.binding != fs.binding):
		return linkErrorf("uniform block bound at @group(%d) @binding(%d) in vertex stage but @group(%d) @binding(%d) in fragment stage",
			vs.group, vs.binding, fs.group, fs.binding)
	case !vs.hasUniforms:
		group, binding = fs.group, fs.binding
	}
	prog.UniformGroup = group
	prog.UniformBinding = binding
	return nil
}

func linkErrorf(format string, args ...any) error {
	return &ProgramLinkError{Log: fmt.Sprintf(format, args...)}
}
