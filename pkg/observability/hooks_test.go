package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSolverHooks{}
	s.OnBuildStart(ctx, "abc")
	s.OnExpandComplete(ctx, 10, 4, time.Second)
	s.OnTransposition(ctx)
	s.OnLevelComplete(ctx, 0, 4, time.Millisecond)
	s.OnBuildComplete(ctx, 10, time.Second, nil)

	v := NoopVaultHooks{}
	v.OnLoad(ctx, true)
	v.OnSave(ctx, 128)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/states/{digest}", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Solver().(NoopSolverHooks); !ok {
		t.Error("Solver() should return NoopSolverHooks by default")
	}
	if _, ok := Vault().(NoopVaultHooks); !ok {
		t.Error("Vault() should return NoopVaultHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customSolver := &testSolverHooks{}
	SetSolverHooks(customSolver)
	if Solver() != customSolver {
		t.Error("SetSolverHooks should set custom hooks")
	}

	customVault := &testVaultHooks{}
	SetVaultHooks(customVault)
	if Vault() != customVault {
		t.Error("SetVaultHooks should set custom hooks")
	}

	// nil keeps the current hooks
	SetVaultHooks(nil)
	if Vault() != customVault {
		t.Error("SetVaultHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Solver().(NoopSolverHooks); !ok {
		t.Error("Reset should restore NoopSolverHooks")
	}
}

func TestHooksConcurrentAccess(t *testing.T) {
	defer Reset()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetVaultHooks(&testVaultHooks{})
		}()
		go func() {
			defer wg.Done()
			Vault().OnLoad(context.Background(), false)
		}()
	}
	wg.Wait()
}

type testSolverHooks struct{ NoopSolverHooks }

type testVaultHooks struct {
	mu    sync.Mutex
	loads int
}

func (h *testVaultHooks) OnLoad(context.Context, bool) {
	h.mu.Lock()
	h.loads++
	h.mu.Unlock()
}

func (h *testVaultHooks) OnSave(context.Context, int) {}
