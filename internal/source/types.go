package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

// NoFileID marks spans that do not point into any loaded file
// (startup errors, command-line problems).
const NoFileID FileID = ^FileID(0)

const (
	// FileVirtual indicates the file was added from memory (stdin, REPL fragment, test).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Dir returns the directory part of the file path.
func (f *File) Dir() string {
	return Dir(f.Path)
}

// Name returns the last element of the file path.
func (f *File) Name() string {
	return BaseName(f.Path)
}
