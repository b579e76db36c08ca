package filechange

import (
	"regexp"

	"github.com/huangsam/gitpulse/schema"
)

// extCategories maps lowercase extensions to file categories.
var extCategories = map[string]schema.FileCategory{
	// source
	".go": schema.SourceCategory, ".py": schema.SourceCategory, ".java": schema.SourceCategory,
	".rs": schema.SourceCategory, ".c": schema.SourceCategory, ".h": schema.SourceCategory,
	".cpp": schema.SourceCategory, ".cc": schema.SourceCategory, ".hpp": schema.SourceCategory,
	".cs": schema.SourceCategory, ".rb": schema.SourceCategory, ".php": schema.SourceCategory,
	".swift": schema.SourceCategory, ".kt": schema.SourceCategory, ".kts": schema.SourceCategory,
	".scala": schema.SourceCategory, ".ts": schema.SourceCategory, ".js": schema.SourceCategory,
	".mjs": schema.SourceCategory, ".cjs": schema.SourceCategory, ".lua": schema.SourceCategory,
	".dart": schema.SourceCategory, ".ex": schema.SourceCategory, ".exs": schema.SourceCategory,
	".hs": schema.SourceCategory, ".r": schema.SourceCategory, ".sh": schema.SourceCategory,
	".bash": schema.SourceCategory, ".zsh": schema.SourceCategory, ".sql": schema.SourceCategory,
	".proto": schema.SourceCategory,

	// web
	".html": schema.WebCategory, ".htm": schema.WebCategory, ".css": schema.WebCategory,
	".scss": schema.WebCategory, ".sass": schema.WebCategory, ".less": schema.WebCategory,
	".jsx": schema.WebCategory, ".tsx": schema.WebCategory, ".vue": schema.WebCategory,
	".svelte": schema.WebCategory,

	// config
	".json": schema.ConfigCategory, ".yaml": schema.ConfigCategory, ".yml": schema.ConfigCategory,
	".toml": schema.ConfigCategory, ".ini": schema.ConfigCategory, ".cfg": schema.ConfigCategory,
	".conf": schema.ConfigCategory, ".env": schema.ConfigCategory, ".xml": schema.ConfigCategory,
	".properties": schema.ConfigCategory, ".mod": schema.ConfigCategory,

	// documentation
	".md": schema.DocumentationCategory, ".rst": schema.DocumentationCategory,
	".txt": schema.DocumentationCategory, ".adoc": schema.DocumentationCategory,
	".org": schema.DocumentationCategory,

	// data
	".csv": schema.DataCategory, ".tsv": schema.DataCategory, ".parquet": schema.DataCategory,
	".jsonl": schema.DataCategory, ".ndjson": schema.DataCategory, ".db": schema.DataCategory,
	".sqlite": schema.DataCategory,

	// image
	".png": schema.ImageCategory, ".jpg": schema.ImageCategory, ".jpeg": schema.ImageCategory,
	".gif": schema.ImageCategory, ".svg": schema.ImageCategory, ".ico": schema.ImageCategory,
	".webp": schema.ImageCategory, ".bmp": schema.ImageCategory,

	// archive
	".zip": schema.ArchiveCategory, ".tar": schema.ArchiveCategory, ".gz": schema.ArchiveCategory,
	".tgz": schema.ArchiveCategory, ".bz2": schema.ArchiveCategory, ".xz": schema.ArchiveCategory,
	".7z": schema.ArchiveCategory, ".rar": schema.ArchiveCategory, ".jar": schema.ArchiveCategory,

	// executable
	".exe": schema.ExecutableCategory, ".dll": schema.ExecutableCategory, ".so": schema.ExecutableCategory,
	".dylib": schema.ExecutableCategory, ".bin": schema.ExecutableCategory, ".o": schema.ExecutableCategory,
	".a": schema.ExecutableCategory, ".wasm": schema.ExecutableCategory,
}

// nameCategories covers extensionless files with a well known role.
var nameCategories = map[string]schema.FileCategory{
	"Dockerfile":  schema.ConfigCategory,
	"Makefile":    schema.ConfigCategory,
	"Jenkinsfile": schema.ConfigCategory,
	".gitignore":  schema.ConfigCategory,
	"LICENSE":     schema.DocumentationCategory,
	"README":      schema.DocumentationCategory,
}

// extLanguages maps lowercase extensions to language names.
var extLanguages = map[string]string{
	".go": "Go", ".py": "Python", ".java": "Java", ".rs": "Rust",
	".c": "C", ".h": "C", ".cpp": "C++", ".cc": "C++", ".hpp": "C++",
	".cs": "C#", ".rb": "Ruby", ".php": "PHP", ".swift": "Swift",
	".kt": "Kotlin", ".kts": "Kotlin", ".scala": "Scala",
	".js": "JavaScript", ".mjs": "JavaScript", ".cjs": "JavaScript", ".jsx": "JavaScript",
	".ts": "TypeScript", ".tsx": "TypeScript",
	".lua": "Lua", ".dart": "Dart", ".ex": "Elixir", ".exs": "Elixir",
	".hs": "Haskell", ".r": "R", ".sh": "Shell", ".bash": "Shell", ".zsh": "Shell",
	".sql": "SQL", ".proto": "Protocol Buffers",
	".html": "HTML", ".htm": "HTML", ".css": "CSS", ".scss": "SCSS", ".sass": "Sass",
	".less": "Less", ".vue": "Vue", ".svelte": "Svelte",
	".md": "Markdown", ".rst": "reStructuredText",
	".json": "JSON", ".yaml": "YAML", ".yml": "YAML", ".toml": "TOML", ".xml": "XML",
}

// nameLanguages covers extensionless files.
var nameLanguages = map[string]string{
	"Dockerfile": "Dockerfile",
	"Makefile":   "Makefile",
}

// Flag patterns. A path may match several sets.
var (
	configPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(^|/)(Dockerfile|Makefile|Jenkinsfile|Procfile)$`),
		regexp.MustCompile(`(^|/)docker-compose[^/]*\.ya?ml$`),
		regexp.MustCompile(`(^|/)\.(gitignore|gitattributes|editorconfig|dockerignore|npmrc|nvmrc)$`),
		regexp.MustCompile(`(^|/)\.env(\.[^/]+)?$`),
		regexp.MustCompile(`(^|/)(package\.json|tsconfig[^/]*\.json|go\.mod|Cargo\.toml|pyproject\.toml|setup\.cfg|requirements[^/]*\.txt)$`),
		regexp.MustCompile(`(^|/)[^/]+\.config\.[cm]?[jt]s$`),
		regexp.MustCompile(`(^|/)\.github/workflows/`),
		regexp.MustCompile(`\.(ya?ml|toml|ini|cfg|conf|properties)$`),
	}
	docPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(^|/)(README|CHANGELOG|CONTRIBUTING|LICENSE|AUTHORS|NOTICE)([.-][^/]*)?$`),
		regexp.MustCompile(`(^|/)docs?/`),
		regexp.MustCompile(`(?i)\.(md|rst|adoc)$`),
	}
	testPatterns = []*regexp.Regexp{
		regexp.MustCompile(`_test\.go$`),
		regexp.MustCompile(`(^|/)test_[^/]+\.py$`),
		regexp.MustCompile(`_test\.py$`),
		regexp.MustCompile(`\.(test|spec)\.[cm]?[jt]sx?$`),
		regexp.MustCompile(`(^|/)(tests?|__tests__|spec|testdata)/`),
		regexp.MustCompile(`Test\.(java|kt|cs)$`),
	}
	generatedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\.pb(\.gw)?\.go$`),
		regexp.MustCompile(`_pb2(_grpc)?\.py$`),
		regexp.MustCompile(`(\.gen|_gen|_generated|\.generated)\.[^/]+$`),
		regexp.MustCompile(`(^|/)zz_generated[^/]*\.go$`),
		regexp.MustCompile(`\.(min\.js|min\.css|map)$`),
	}
)
