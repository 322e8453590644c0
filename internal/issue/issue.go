// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Issue identifiers. Zero means "no catalog entry".
const (
	ArchiveNotFoundId Id = iota + 1
	ArchiveUnreadableId
	EntrySymbolMissingId
	EntrySignatureUnsupportedId
	ExtensionFailedId
	DuplicatePropertyId
	ConfigLoadFailedId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is Markdown text rendered for the user.
	MarkdownMsg string

	// Issue is a catalog entry with longer guidance for a class of failure.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

// Id returns the catalog identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the guidance for a terminal using the given glamour style
// ("dark", "light", "notty", "auto", or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	archiveNotFoundIssue = &Issue{
		id: ArchiveNotFoundId,
		mdMsg: `
# Cannot locate the archive to launch

launchkit launches the archive it was started from, or the one given with
` + "`--archive`" + `. Neither could be resolved.

## Things you can try
- Pass the archive explicitly:
~~~
$ launchkit run --archive ./app.zip
~~~
- If the launcher binary carries an appended archive, run the binary itself
  rather than a symlink whose target is gone.`,
	}

	archiveUnreadableIssue = &Issue{
		id: ArchiveUnreadableId,
		mdMsg: `
# The archive could not be read

The file exists but its zip directory could not be scanned.

## Things you can try
- Check that the file is a complete zip (an interrupted copy truncates the
  central directory at the end of the file).
- Rebuild it:
~~~
$ launchkit pack --output app.zip --lib mylib=./build/mylib --entry com.example.Main
~~~`,
	}

	entrySymbolMissingIssue = &Issue{
		id: EntrySymbolMissingId,
		mdMsg: `
# No entry symbol

Arguments were given but launchkit does not know what to run.

## Things you can try
- Name the entry symbol on the command line:
~~~
$ launchkit run -Rcom.example.Main arg1 arg2
~~~
- Or record it in the archive manifest (` + "`META-INF/MANIFEST.MF`" + `):
~~~
Jump-Class: com.example.Main
~~~`,
	}

	entrySignatureUnsupportedIssue = &Issue{
		id: EntrySignatureUnsupportedId,
		mdMsg: `
# The entry symbol cannot be invoked

The symbol was found, but it is neither a run-style nor a main-style entry point.

## Supported shapes (tried in this order)
1. ` + "`launch.Runner`, `launch.RunFunc`, `func(context.Context, string, []string) error`" + `
2. ` + "`launch.Mainer`, `launch.MainFunc`, `func(context.Context, []string) error`",
	}

	extensionFailedIssue = &Issue{
		id: ExtensionFailedId,
		mdMsg: `
# An extension failed

Extensions run before the application starts; the first failure stops the launch.

## Things you can try
- Disable the extension for one run:
~~~
$ launchkit run -Dlaunchkit.disable.<name> ...
~~~
- List extensions and their order:
~~~
$ launchkit inspect ./app.zip
~~~`,
	}

	duplicatePropertyIssue = &Issue{
		id: DuplicatePropertyId,
		mdMsg: `
# Duplicate property

A properties file passed with ` + "`-P`" + ` defines the same key twice. launchkit
refuses to guess which value is meant.

## Things you can try
- Remove one of the definitions.
- Override single values with ` + "`-D<name>=<value>`" + ` instead.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file is not valid CUE or does not match the schema.

## Things you can try
- Show the file in use:
~~~
$ launchkit config path
~~~
- Recreate a default file:
~~~
$ launchkit config init
~~~`,
	}

	issues = map[Id]*Issue{
		archiveNotFoundIssue.Id():           archiveNotFoundIssue,
		archiveUnreadableIssue.Id():         archiveUnreadableIssue,
		entrySymbolMissingIssue.Id():        entrySymbolMissingIssue,
		entrySignatureUnsupportedIssue.Id(): entrySignatureUnsupportedIssue,
		extensionFailedIssue.Id():           extensionFailedIssue,
		duplicatePropertyIssue.Id():         duplicatePropertyIssue,
		configLoadFailedIssue.Id():          configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
	return values
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
