package render

const pythonTemplateConstant = `# This file was generated by {{.ToolName}}.
# Do NOT change. Do NOT track in version control.

from typing import Dict, Union

git: Dict[str, Union[str, bool]] = {
{{- range .Fields}}
    "{{.Key}}": {{.Literal}},
{{- end}}
}
__git__ = git
`

const goTemplateConstant = `// Code generated by {{.ToolName}}. DO NOT EDIT.
// Do NOT change. Do NOT track in version control.

package {{.PackageName}}

var Git = map[string]any{
{{- range .Fields}}
	"{{.Key}}": {{.Literal}},
{{- end}}
}
var GitDetails = Git
`
