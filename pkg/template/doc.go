// Package template resolves flat {{Placeholder}} tokens in a mail-merge
// message against a recipient row and a user-supplied variable map, and
// converts the resolved text into HTML and plain-text presentation forms.
//
// # Placeholder resolution
//
// A resolution table is built from the row's columns, then the variable map,
// then the reserved Mail/Email bindings (always the recipient address, never
// overridable). Each {{ name }} occurrence is matched in three tiers: exact
// case, case-insensitive, then a normalized form with all non-alphanumeric
// characters stripped — so {{First Name}}, {{first_name}} and {{FirstName}}
// are equivalent. Unmatched tokens are left verbatim: for a human-reviewed
// mailing, visible unresolved markup beats silent data loss.
//
// # Presentation forms
//
// RenderHTML escapes the resolved text first, then expands **bold** and
// [label](url) markup and converts newlines to <br>. Link targets are only
// rendered as anchors for http://, https:// and mailto: schemes; anything
// else stays as the original bracket markup. RenderPlain derives the
// plain-text form from the unescaped resolved text independently, never
// from the HTML form.
package template
