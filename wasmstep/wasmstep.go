// Package wasmstep hosts external step modules compiled to WebAssembly.
//
// Modules run on wazero (pure Go, no CGO). Each module exposes the step
// ABI through shared linear memory: strings cross the boundary as
// (ptr, len) pairs, return values are packed as (ptr << 32) | len in a
// u64. Payloads are JSON envelopes so module authors never touch the
// host's record model directly.
//
// Required exports: execute, allocate, deallocate. The step_name export
// is optional; the manifest name or the file stem names the step when it
// is absent.
package wasmstep

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/teranos/hdcat/errors"
	"github.com/teranos/hdcat/step"
)

// APIVersion is the step ABI version this host implements. Manifests may
// declare a semver constraint against it.
const APIVersion = "1.0.0"

const (
	exportExecute    = "execute"
	exportAllocate   = "allocate"
	exportDeallocate = "deallocate"
	exportStepName   = "step_name"
)

var requiredExports = []string{exportExecute, exportAllocate, exportDeallocate}

// Module is a loaded WASM step. A single module instance is reused for
// all calls; access is serialized by a mutex.
type Module struct {
	path     string
	name     string
	manifest Manifest
	runtime  wazero.Runtime
	mod      api.Module

	mu sync.Mutex
}

var _ step.Step = (*Module)(nil)

// Load compiles and instantiates the WASM module at path, reads its
// sidecar manifest, and verifies the required exports and the API version
// constraint. The caller owns the returned module and must Close it.
func Load(ctx context.Context, path string) (*Module, error) {
	wasmBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read module %s", path)
	}

	manifest, err := LoadManifest(ManifestPath(path))
	if err != nil {
		return nil, err
	}
	if err := manifest.CheckAPIVersion(); err != nil {
		return nil, err
	}

	r := wazero.NewRuntime(ctx)

	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		r.Close(ctx)
		return nil, errors.Wrapf(err, "wasm compile %s", path)
	}

	mod, err := r.InstantiateModule(ctx, compiled,
		wazero.NewModuleConfig().WithName(filepath.Base(path)))
	if err != nil {
		r.Close(ctx)
		return nil, errors.Wrapf(err, "wasm instantiate %s", path)
	}

	for _, export := range requiredExports {
		if mod.ExportedFunction(export) == nil {
			r.Close(ctx)
			return nil, errors.Newf("wasm module %s: missing export %q", path, export)
		}
	}

	m := &Module{
		path:     path,
		manifest: manifest,
		runtime:  r,
		mod:      mod,
	}
	m.name = m.resolveName(ctx)

	return m, nil
}

// resolveName picks the step name: manifest first, then the optional
// step_name export, then the file stem.
func (m *Module) resolveName(ctx context.Context) string {
	if m.manifest.Name != "" {
		return m.manifest.Name
	}
	if m.mod.ExportedFunction(exportStepName) != nil {
		if name, err := m.callNoArgs(ctx, exportStepName); err == nil && name != "" {
			return name
		}
	}
	return strings.TrimSuffix(filepath.Base(m.path), ".wasm")
}

// Name implements step.Step.
func (m *Module) Name() string { return m.name }

// Describe implements step.Describer.
func (m *Module) Describe() string { return m.manifest.Description }

// Path returns the module file the step was loaded from.
func (m *Module) Path() string { return m.path }

// Execute implements step.Step. Input and options travel to the module as
// a JSON request envelope; the response envelope's output travels back,
// with arrays of objects decoded into a record set.
func (m *Module) Execute(ctx context.Context, input any, opts step.Options) (any, error) {
	payload, err := encodeRequest(input, opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	raw, err := m.callString(ctx, exportExecute, payload)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out, err := decodeResponse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "step %s", m.name)
	}
	return out, nil
}

// Close releases the module's WASM resources.
func (m *Module) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}

// callString handles the shared-memory protocol for string-in, string-out
// calls into the module.
func (m *Module) callString(ctx context.Context, fnName string, input string) (string, error) {
	allocFn := m.mod.ExportedFunction(exportAllocate)
	freeFn := m.mod.ExportedFunction(exportDeallocate)
	targetFn := m.mod.ExportedFunction(fnName)

	if allocFn == nil || freeFn == nil || targetFn == nil {
		return "", errors.Newf("wasm: missing export %q", fnName)
	}

	inputBytes := []byte(input)
	inputSize := uint64(len(inputBytes))

	var inputPtr uint64
	if inputSize > 0 {
		results, err := allocFn.Call(ctx, inputSize)
		if err != nil {
			return "", errors.Wrapf(err, "wasm allocate for %s (size=%d)", fnName, inputSize)
		}
		inputPtr = results[0]
		if inputPtr == 0 {
			return "", errors.Newf("wasm allocate returned null for %s (size=%d)", fnName, inputSize)
		}

		if !m.mod.Memory().Write(uint32(inputPtr), inputBytes) {
			// Best effort to free, but prioritize returning the write error
			if _, freeErr := freeFn.Call(ctx, inputPtr, inputSize); freeErr != nil {
				return "", errors.Wrapf(freeErr, "wasm %s memory write out of range at ptr=%d size=%d (also failed to free)", fnName, inputPtr, inputSize)
			}
			return "", errors.Newf("wasm %s memory write out of range at ptr=%d size=%d", fnName, inputPtr, inputSize)
		}
	}

	results, err := targetFn.Call(ctx, inputPtr, inputSize)
	if err != nil {
		if inputSize > 0 {
			if _, freeErr := freeFn.Call(ctx, inputPtr, inputSize); freeErr != nil {
				return "", errors.Wrapf(err, "wasm call %s failed (also failed to free input at ptr=%d size=%d: %v)", fnName, inputPtr, inputSize, freeErr)
			}
		}
		return "", errors.Wrapf(err, "wasm call %s", fnName)
	}

	if inputSize > 0 {
		if _, err := freeFn.Call(ctx, inputPtr, inputSize); err != nil {
			return "", errors.Wrapf(err, "wasm %s memory leak: failed to free input buffer at ptr=%d size=%d", fnName, inputPtr, inputSize)
		}
	}

	return m.readPacked(ctx, fnName, results[0], freeFn)
}

// callNoArgs handles the shared-memory protocol for no-input, string-out
// calls (the step_name query).
func (m *Module) callNoArgs(ctx context.Context, fnName string) (string, error) {
	freeFn := m.mod.ExportedFunction(exportDeallocate)
	targetFn := m.mod.ExportedFunction(fnName)

	if freeFn == nil || targetFn == nil {
		return "", errors.Newf("wasm: missing export %q", fnName)
	}

	results, err := targetFn.Call(ctx)
	if err != nil {
		return "", errors.Wrapf(err, "wasm call %s", fnName)
	}

	return m.readPacked(ctx, fnName, results[0], freeFn)
}

// readPacked unpacks a (ptr << 32) | len return value, copies the bytes
// out of module memory, and frees the module-side buffer.
func (m *Module) readPacked(ctx context.Context, fnName string, packed uint64, freeFn api.Function) (string, error) {
	resultPtr := uint32(packed >> 32)
	resultLen := uint32(packed & 0xFFFFFFFF)

	if resultPtr == 0 || resultLen == 0 {
		return "", errors.Newf("wasm %s returned null result (ptr=%d, len=%d)", fnName, resultPtr, resultLen)
	}

	resultBytes, ok := m.mod.Memory().Read(resultPtr, resultLen)
	if !ok {
		return "", errors.Newf("wasm %s memory read out of range at ptr=%d len=%d", fnName, resultPtr, resultLen)
	}

	// Copy before freeing (memory invalidated after free)
	output := make([]byte, len(resultBytes))
	copy(output, resultBytes)

	if _, err := freeFn.Call(ctx, uint64(resultPtr), uint64(resultLen)); err != nil {
		return "", errors.Wrapf(err, "wasm %s memory leak: failed to free result buffer at ptr=%d size=%d", fnName, resultPtr, resultLen)
	}

	return string(output), nil
}
