package device

import "testing"

const testKernel = `
struct Params {
    width: u32,
    height: u32,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read> src: array<u32>;
@group(0) @binding(2) var<storage, read_write> dst: array<u32>;

@compute @workgroup_size(16, 16, 1)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    if (gid.x >= params.width || gid.y >= params.height) {
        return;
    }
    let i = gid.y * params.width + gid.x;
    dst[i] = src[i];
}
`

func TestCompileWGSL(t *testing.T) {
	code, err := CompileWGSL(testKernel)
	if err != nil {
		t.Fatalf("CompileWGSL: %v", err)
	}
	if len(code) == 0 {
		t.Fatal("empty SPIR-V output")
	}
	// SPIR-V modules start with the magic number.
	if code[0] != 0x07230203 {
		t.Errorf("first word = %#x, want SPIR-V magic 0x07230203", code[0])
	}
}

func TestCompileWGSLRejectsInvalidSource(t *testing.T) {
	if _, err := CompileWGSL("fn main( {"); err == nil {
		t.Fatal("expected compile error")
	}
}
