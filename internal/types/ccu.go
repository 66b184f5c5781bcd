package types

// Ccu is the compilation-unit handle. Its contents are set once, by the
// goroutine that owns the closed-set check, after all checking finished.
type Ccu struct {
	Name     string
	contents *ModuleType
}

func NewCcu(name string) *Ccu {
	return &Ccu{Name: name}
}

func (c *Ccu) SetContents(mt *ModuleType) {
	if c == nil {
		return
	}
	c.contents = mt
}

// Contents returns the published signature (nil until published).
func (c *Ccu) Contents() *ModuleType {
	if c == nil {
		return nil
	}
	return c.contents
}
