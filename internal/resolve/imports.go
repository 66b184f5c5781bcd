package resolve

import (
	"sync"

	"fsfront/internal/config"
	"fsfront/internal/types"
)

// ImportTable collects resolved references and the module types they
// contribute. It is shared by the batch driver and the interactive session.
type ImportTable struct {
	mu      sync.RWMutex
	refs    []config.Reference
	modules []*types.ModuleType
}

func NewImportTable() *ImportTable {
	return &ImportTable{}
}

// AddReference records ref unless an equal one is present.
func (t *ImportTable) AddReference(ref config.Reference) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.refs {
		if r.Path == ref.Path && r.Package == ref.Package {
			return false
		}
	}
	t.refs = append(t.refs, ref)
	return true
}

func (t *ImportTable) References() []config.Reference {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]config.Reference, len(t.refs))
	copy(out, t.refs)
	return out
}

// Register makes the contents of root visible to every check started after
// the call. Later registrations win on name clashes.
func (t *ImportTable) Register(root *types.ModuleType) {
	if root == nil {
		return
	}
	t.mu.Lock()
	t.modules = append(t.modules, root.Clone())
	t.mu.Unlock()
}

// InitialEnv builds the environment before the first file.
func (t *ImportTable) InitialEnv() types.TcEnv {
	t.mu.RLock()
	defer t.mu.RUnlock()
	root := types.NewRoot()
	for _, m := range t.modules {
		root = types.CombineModuleTypes(root, m)
	}
	return types.NewEnv(root)
}
