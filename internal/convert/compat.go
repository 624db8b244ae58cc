// # internal/convert/compat.go
package convert

import (
	"fmt"
	"path"
	"strings"
)

// buildCompatHeader emits the forwarding header placed next to a compat
// module interface unit. Defining the compat macro makes the include pick up
// the dual-syntax file as a plain header, without it the file is consumed as
// a module unit.
func buildCompatHeader(opts *Options, res *resolver, interfaceBuilder *moduleBuilder) FileContent {
	interfaceFilename := path.Base(interfaceBuilder.convertedFilename())
	lines := []string{
		"#pragma once",
		fmt.Sprintf("#ifndef %s", opts.CompatMacro),
		fmt.Sprintf("#define %s", opts.CompatMacro),
		fmt.Sprintf("#include %q", interfaceFilename),
		fmt.Sprintf("#undef %s", opts.CompatMacro),
		"#else",
		fmt.Sprintf("#include %q", interfaceFilename),
		"#endif",
	}
	return FileContent{
		Filename: res.convertedFilename(interfaceBuilder.relPath, ContentHeader),
		Type:     ContentHeader,
		Content:  strings.Join(lines, "\n") + "\n",
	}
}
