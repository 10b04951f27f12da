package mcpserver

// DestinationsContract documents the destinations and the options each one
// accepts. It is served as the drdoc://destinations resource.
const DestinationsContract = `# Dr.Doc Destinations

Input is plain text, Markdown or JSON. The format is detected unless a
` + "`format`" + ` hint (` + "`txt`, `md`, `json`" + `) is given.

## github

Scaffolds a repository: README.md, .gitignore, LICENSE (MIT only),
CONTRIBUTING.md, docs/installation.md and docs/usage.md when the input has
more than three sections, and examples/example_N.<ext> for every code block.

Options:

- ` + "`project_name`" + ` defaults to the document title.
- ` + "`author`" + `, ` + "`description`" + `, ` + "`license`" + ` (default MIT).

## chatgpt

Condenses the input into a single context.md for an AI assistant.

Options:

- ` + "`context_type`" + `: general (default), code, project_brief, debug.
- general: ` + "`goal`, `requirements`" + `.
- code: ` + "`goal`, `problem`, `requirements`" + `.
- project_brief: ` + "`project_name`, `project_type`, `technologies`, `business_goal`, `tech_requirements`, `constraints`" + `.
- debug: ` + "`error`, `environment`, `steps`, `expected`, `actual`" + `.

` + "`requirements`" + ` and ` + "`steps`" + ` accept text or a list; lists render numbered.

## project_brief

Alias for chatgpt with ` + "`context_type`" + ` set to project_brief.

## Rules

1. A result with errors is never written.
2. Generated paths use forward slashes and stay inside the project directory.
3. Writing again to the same project overwrites files; nothing is removed
   unless ` + "`clean`" + ` is set.
`
