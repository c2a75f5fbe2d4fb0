// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucore

import (
	"errors"
	"strings"
	"testing"
)

const uniformsWGSL = `
struct Uniforms {
    color: vec4<f32>,
    point_size: f32,
    pad0: f32,
    pad1: f32,
    pad2: f32,
}

@group(0) @binding(0) var<uniform> u: Uniforms;
`

func TestCompileProgramBuiltin(t *testing.T) {
	prog, err := CompileProgram(LineVertexShader, LineFragmentShader)
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}
	if len(prog.VertexSPIRV) == 0 || len(prog.FragmentSPIRV) == 0 {
		t.Fatal("expected SPIR-V for both stages")
	}
	if prog.PositionLocation != 0 {
		t.Errorf("PositionLocation = %d, want 0", prog.PositionLocation)
	}
	if prog.UniformGroup != 0 || prog.UniformBinding != 0 {
		t.Errorf("uniform block at (%d, %d), want (0, 0)", prog.UniformGroup, prog.UniformBinding)
	}
}

func TestCompileProgramMalformedStage(t *testing.T) {
	tests := []struct {
		name      string
		vertex    string
		fragment  string
		wantStage Stage
	}{
		{"vertex syntax", "@vertex fn vs_main( -> {", LineFragmentShader, StageVertex},
		{"fragment syntax", LineVertexShader, "@fragment fn fs_main() -> @location(0) vec4<f32> { return }", StageFragment},
		{"empty vertex", "   ", LineFragmentShader, StageVertex},
		{"empty fragment", LineVertexShader, "", StageFragment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileProgram(tt.vertex, tt.fragment)
			var ce *ShaderCompileError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %v, want *ShaderCompileError", err)
			}
			if ce.Stage != tt.wantStage {
				t.Errorf("Stage = %v, want %v", ce.Stage, tt.wantStage)
			}
			if ce.Log == "" {
				t.Error("expected a diagnostic log")
			}
			var le *ProgramLinkError
			if errors.As(err, &le) {
				t.Error("link must not be attempted after a compile failure")
			}
		})
	}
}

func TestCompileProgramLinkFailures(t *testing.T) {
	renamedVertex := strings.Replace(LineVertexShader, "fn vs_main", "fn main", 1)

	readsVarying := uniformsWGSL + `
@fragment
fn fs_main(@location(1) shade: f32) -> @location(0) vec4<f32> {
    return u.color * shade;
}
`
	noUniforms := `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`
	noPosition := uniformsWGSL + `
@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(f32(i), 0.0, 0.0, 1.0);
}
`
	vertexNoUniforms := `
@vertex
fn vs_main(@location(0) p: vec2<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(p, 0.0, 1.0);
}
`

	tests := []struct {
		name     string
		vertex   string
		fragment string
		wantLog  string
	}{
		{"missing vertex entry", renamedVertex, LineFragmentShader, "vertex entry point"},
		{"unmatched varying", LineVertexShader, readsVarying, "@location(1)"},
		{"no uniform block", vertexNoUniforms, noUniforms, "uniform block"},
		{"no position attribute", noPosition, LineFragmentShader, "position attribute"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileProgram(tt.vertex, tt.fragment)
			var le *ProgramLinkError
			if !errors.As(err, &le) {
				t.Fatalf("err = %v, want *ProgramLinkError", err)
			}
			if !strings.Contains(le.Log, tt.wantLog) {
				t.Errorf("Log = %q, want it to mention %q", le.Log, tt.wantLog)
			}
		})
	}
}

func TestCompileProgramVaryingMatched(t *testing.T) {
	vertex := uniformsWGSL + `
struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) shade: f32,
}

@vertex
fn vs_main(@location(2) pos: vec2<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.position = vec4<f32>(pos, 0.0, 1.0);
    out.shade = 0.5;
    return out;
}
`
	fragment := uniformsWGSL + `
@fragment
fn fs_main(@location(0) shade: f32) -> @location(0) vec4<f32> {
    return u.color * shade;
}
`
	prog, err := CompileProgram(vertex, fragment)
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}
	if prog.PositionLocation != 2 {
		t.Errorf("PositionLocation = %d, want 2", prog.PositionLocation)
	}
}

func TestCompileProgramIgnoresComments(t *testing.T) {
	vertex := uniformsWGSL + `
// @vertex fn vs_main(@location(3) old: vec2<f32>) -> @builtin(position) vec4<f32>
@vertex
fn vs_main(@location(0) pos: vec2<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(pos, 0.0, 1.0);
}
`
	prog, err := CompileProgram(vertex, LineFragmentShader)
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}
	if prog.PositionLocation != 0 {
		t.Errorf("PositionLocation = %d, want 0 from the live signature", prog.PositionLocation)
	}
}

func TestCompileProgramLowercaseVaryingStruct(t *testing.T) {
	fragment := uniformsWGSL + `
struct fin {
    @location(4) shade: f32,
}

@fragment
fn fs_main(in: fin) -> @location(0) vec4<f32> {
    return u.color * in.shade;
}
`
	_, err := CompileProgram(LineVertexShader, fragment)
	var le *ProgramLinkError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *ProgramLinkError", err)
	}
	if !strings.Contains(le.Log, "@location(4)") {
		t.Errorf("Log = %q, want it to mention @location(4)", le.Log)
	}
}

func TestStateError(t *testing.T) {
	err := StateError("DrawLineStrip", StateDestroyed, nil)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("errors.Is(%v, ErrInvalidState) = false", err)
	}
	if !strings.Contains(err.Error(), "destroyed") {
		t.Errorf("error %q should name the state", err)
	}

	cause := &ShaderCompileError{Stage: StageFragment, Log: "boom"}
	err = StateError("SetColor", StateFailed, cause)
	if !errors.Is(err, ErrInvalidState) {
		t.Error("wrapped state error lost ErrInvalidState")
	}
	var ce *ShaderCompileError
	if !errors.As(err, &ce) {
		t.Error("wrapped state error lost its cause")
	}
}

func TestApplyOptions(t *testing.T) {
	o := ApplyOptions()
	if o.VertexSource != LineVertexShader || o.FragmentSource != LineFragmentShader {
		t.Error("defaults should select the built-in program")
	}
	o = ApplyOptions(WithShaderSource("v", ""))
	if o.VertexSource != "v" || o.FragmentSource != LineFragmentShader {
		t.Errorf("WithShaderSource(v, \"\") = %+v", o)
	}
	if o.MemoryBudget != DefaultMemoryBudget {
		t.Errorf("MemoryBudget = %d, want default %d", o.MemoryBudget, DefaultMemoryBudget)
	}
	if o = ApplyOptions(WithMemoryBudget(1 << 20)); o.MemoryBudget != 1<<20 {
		t.Errorf("WithMemoryBudget: MemoryBudget = %d", o.MemoryBudget)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateUninitialized: "uninitialized",
		StateReady:         "ready",
		StateFailed:        "failed",
		StateDestroyed:     "destroyed",
		State(42):          "State(42)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}

func TestValidateSize(t *testing.T) {
	if err := ValidateSize(800, 600); err != nil {
		t.Errorf("ValidateSize(800, 600) = %v", err)
	}
	if err := ValidateSize(0, 600); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("ValidateSize(0, 600) = %v, want ErrInvalidSize", err)
	}
}
