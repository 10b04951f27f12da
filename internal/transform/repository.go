package transform

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tftdatascientist/drdoc/internal/models"
)

const (
	defaultProjectName = "Untitled"
	defaultAuthor      = "Author"
	defaultDescription = "Project description"
	defaultLicense     = "MIT"

	maxFeatures        = 5
	maxExampleRunes    = 200
	minSectionsToSplit = 3
)

// Repository scaffolds a GitHub style repository: README, .gitignore,
// optional LICENSE and CONTRIBUTING, docs placeholders and code examples.
type Repository struct {
	cfg RepositoryConfig
	now func() time.Time
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithClock overrides the clock used for the LICENSE year.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) {
		r.now = now
	}
}

// NewRepository returns the repository scaffold transformer.
func NewRepository(cfg RepositoryConfig, opts ...RepositoryOption) *Repository {
	r := &Repository{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) Name() string { return DestinationGitHub }

func (r *Repository) CanHandle(doc *models.Document) bool { return validate(doc) == "" }

func (r *Repository) Transform(doc *models.Document, opts Options) *models.Result {
	res := models.NewResult(DestinationGitHub)
	if reason := validate(doc); reason != "" {
		res.AddError(reason)
		return res
	}

	o := opts.RepositoryOptions
	name := firstNonEmpty(o.ProjectName, doc.Title, defaultProjectName)
	author := firstNonEmpty(o.Author, defaultAuthor)
	description := firstNonEmpty(o.Description, defaultDescription)
	license := firstNonEmpty(o.License, defaultLicense)
	languages := doc.Languages()

	withLicense := r.cfg.IncludeLicense && strings.EqualFold(license, defaultLicense)
	withDocs := r.cfg.SplitDocs && len(doc.Sections) > minSectionsToSplit

	res.AddFile("README.md", r.readme(doc, readmeParams{
		name:         name,
		author:       author,
		description:  description,
		license:      license,
		licenseFile:  withLicense,
		contributing: r.cfg.IncludeContributing,
		docs:         withDocs,
	}))
	res.AddFile(".gitignore", gitignore(languages))
	if withLicense {
		res.AddFile("LICENSE", mitLicense(r.now().Year(), author))
	}
	if r.cfg.IncludeContributing {
		res.AddFile("CONTRIBUTING.md", contributingDoc)
	}
	if withDocs {
		res.AddFile("docs/installation.md", installationDoc)
		res.AddFile("docs/usage.md", usageDoc)
	}
	if r.cfg.ExtractCodeBlocks {
		for i, b := range doc.CodeBlocks {
			res.AddFile(fmt.Sprintf("examples/example_%d.%s", i+1, extension(b.Language)), b.Code)
		}
	}

	res.Structure = structureOf(res)
	res.Metadata = map[string]any{
		"project_name":      name,
		"files_generated":   len(res.Files),
		"has_code_examples": len(doc.CodeBlocks) > 0,
		"languages":         languages,
		"license":           license,
	}
	return res
}

type readmeParams struct {
	name, author, description, license string

	licenseFile, contributing, docs bool
}

func (r *Repository) readme(doc *models.Document, p readmeParams) string {
	e := r.cfg.AddEmojis
	var b strings.Builder

	b.WriteString(heading(1, "📦", p.name, e) + "\n\n")
	b.WriteString(heading(2, "📋", "Description", e) + "\n\n")
	b.WriteString(p.description + "\n\n")

	if len(doc.Lists) > 0 {
		b.WriteString(heading(2, "✨", "Features", e) + "\n\n")
		items := doc.Lists[0].Items
		for _, item := range items[:min(len(items), maxFeatures)] {
			b.WriteString("- " + item + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(heading(2, "🚀", "Installation", e) + "\n\n")
	b.WriteString(installBlock)
	b.WriteString(heading(2, "💻", "Usage", e) + "\n\n")
	b.WriteString(usageBlock)

	if len(doc.CodeBlocks) > 0 {
		first := doc.CodeBlocks[0]
		b.WriteString(heading(2, "📚", "Examples", e) + "\n\n")
		fmt.Fprintf(&b, "```%s\n%s\n```\n\n", first.Language, truncateRunes(first.Code, maxExampleRunes))
	}

	if p.docs {
		b.WriteString(heading(2, "📖", "Documentation", e) + "\n\n")
		b.WriteString("Detailed documentation lives in [docs/](docs/).\n\n")
	}
	if p.contributing {
		b.WriteString(heading(2, "🤝", "Contributing", e) + "\n\n")
		b.WriteString("Pull requests are welcome! See [CONTRIBUTING.md](CONTRIBUTING.md).\n\n")
	}

	b.WriteString(heading(2, "📝", "License", e) + "\n\n")
	if p.licenseFile {
		fmt.Fprintf(&b, "Licensed under the [%s License](LICENSE).\n\n", p.license)
	} else {
		fmt.Fprintf(&b, "Licensed under the %s License.\n\n", p.license)
	}

	b.WriteString(heading(2, "👥", "Author", e) + "\n\n")
	b.WriteString("- " + p.author + "\n")
	return b.String()
}

func gitignore(languages []string) string {
	var b strings.Builder
	b.WriteString("# Generated by Dr.Doc\n\n")
	if slices.Contains(languages, "python") || slices.Contains(languages, "py") {
		b.WriteString(gitignorePython)
	}
	for _, lang := range []string{"javascript", "typescript", "js", "ts"} {
		if slices.Contains(languages, lang) {
			b.WriteString(gitignoreNode)
			break
		}
	}
	b.WriteString(gitignoreBase)
	return b.String()
}

// structureOf lists the emitted files per directory. src/ and tests/ are
// always declared empty.
func structureOf(res *models.Result) map[string][]string {
	structure := map[string][]string{
		"root":      {},
		"docs/":     {},
		"examples/": {},
		"src/":      {},
		"tests/":    {},
	}
	for _, path := range res.Paths() {
		dir, file, nested := strings.Cut(path, "/")
		if !nested {
			structure["root"] = append(structure["root"], path)
			continue
		}
		key := dir + "/"
		if _, ok := structure[key]; ok && key != "src/" && key != "tests/" {
			structure[key] = append(structure[key], file)
		}
	}
	return structure
}

// extension uses the lowercased language tag as is: example_1.python.
func extension(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return "text"
	}
	return lang
}

func mitLicense(year int, author string) string {
	return fmt.Sprintf(mitTemplate, year, author)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

const installBlock = "```bash\n" +
	"# Clone repository\n" +
	"git clone https://github.com/user/repo.git\n" +
	"cd repo\n\n" +
	"# Install dependencies\n" +
	"npm install  # or: pip install -r requirements.txt\n" +
	"```\n\n"

const usageBlock = "```bash\n" +
	"# Run the application\n" +
	"npm start  # or: python main.py\n" +
	"```\n\n"

const gitignorePython = `# Python
__pycache__/
*.py[cod]
*$py.class
*.so
.Python
venv/
env/
*.egg-info/

`

const gitignoreNode = `# Node.js
node_modules/
npm-debug.log
yarn-error.log
package-lock.json
.npm

`

const gitignoreBase = `# IDEs
.vscode/
.idea/
*.swp
*.swo

# OS
.DS_Store
Thumbs.db
desktop.ini

# Dr.Doc
data/output/
*.tmp
*.log
`

const mitTemplate = `MIT License

Copyright (c) %d %s

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`

const contributingDoc = `# Contributing

Thank you for your interest in contributing!

## How to Contribute

1. Fork the repository
2. Create a feature branch (` + "`git checkout -b feature/amazing-feature`" + `)
3. Commit your changes (` + "`git commit -m 'Add amazing feature'`" + `)
4. Push to the branch (` + "`git push origin feature/amazing-feature`" + `)
5. Open a Pull Request

## Code Style

Please follow the existing code style in the project.

## Reporting Issues

Use GitHub Issues to report bugs or suggest features.

## Code of Conduct

Be respectful and inclusive in all interactions.
`

const installationDoc = `# Installation

## Requirements

- [List of requirements]

## Steps

1. Step 1
2. Step 2
3. Step 3

## Verification

Check that the installation succeeded...
`

const usageDoc = `# Usage

## Basic usage

[Describe basic usage]

## Advanced features

[Describe advanced features]

## Examples

[Usage examples]
`
