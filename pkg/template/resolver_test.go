package template_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/postpanda/mailmerge/pkg/template"
)

func TestResolve_ColumnPlaceholders(t *testing.T) {
	t.Parallel()

	row := template.Row{"First Name": "Ada", "Email": "ada@example.com"}

	t.Run("exact match", func(t *testing.T) {
		t.Parallel()

		got := template.Resolve(row, nil, "Hi {{First Name}}!", "Email", nil)
		require.Equal(t, "Hi Ada!", got)
	})

	t.Run("case insensitive match", func(t *testing.T) {
		t.Parallel()

		got := template.Resolve(row, nil, "Hi {{first name}}!", "Email", nil)
		require.Equal(t, "Hi Ada!", got)
	})

	t.Run("normalized match", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "Hi Ada!", template.Resolve(row, nil, "Hi {{first_name}}!", "Email", nil))
		require.Equal(t, "Hi Ada!", template.Resolve(row, nil, "Hi {{FirstName}}!", "Email", nil))
	})

	t.Run("whitespace around token is trimmed", func(t *testing.T) {
		t.Parallel()

		got := template.Resolve(row, nil, "Hi {{  First Name  }}!", "Email", nil)
		require.Equal(t, "Hi Ada!", got)
	})

	t.Run("unknown placeholder echoed verbatim", func(t *testing.T) {
		t.Parallel()

		got := template.Resolve(row, nil, "Hi {{Nickname}}!", "Email", nil)
		require.Equal(t, "Hi {{Nickname}}!", got)
	})
}

func TestResolve_VariableMap(t *testing.T) {
	t.Parallel()

	row := template.Row{"col_a": "from column", "col_b": "from variable"}

	t.Run("variable maps placeholder to column", func(t *testing.T) {
		t.Parallel()

		vars := template.VariableMap{"Greeting": "col_b"}
		got := template.Resolve(row, nil, "{{Greeting}}", "", vars)
		require.Equal(t, "from variable", got)
	})

	t.Run("variable overrides column on exact key", func(t *testing.T) {
		t.Parallel()

		vars := template.VariableMap{"col_a": "col_b"}
		got := template.Resolve(row, nil, "{{col_a}}", "", vars)
		require.Equal(t, "from variable", got)
	})

	t.Run("column survives in normalized tier", func(t *testing.T) {
		t.Parallel()

		// "Col A" normalizes to the same key as column "col_a"; the earlier
		// column registration wins the normalized tier.
		vars := template.VariableMap{"Col A": "col_b"}
		got := template.Resolve(row, nil, "{{COLA}}", "", vars)
		require.Equal(t, "from column", got)
	})

	t.Run("missing mapped column resolves to empty", func(t *testing.T) {
		t.Parallel()

		vars := template.VariableMap{"Greeting": "missing"}
		got := template.Resolve(row, nil, "[{{Greeting}}]", "", vars)
		require.Equal(t, "[]", got)
	})
}

func TestResolve_ReservedBindings(t *testing.T) {
	t.Parallel()

	row := template.Row{"Mailadresse": "ada@example.com", "Mail": "spoof"}

	t.Run("Mail and Email bound to recipient address", func(t *testing.T) {
		t.Parallel()

		got := template.Resolve(row, nil, "{{Mail}} {{Email}}", "Mailadresse", nil)
		require.Equal(t, "ada@example.com ada@example.com", got)
	})

	t.Run("reserved bindings override a Mail column", func(t *testing.T) {
		t.Parallel()

		got := template.Resolve(row, nil, "{{Mail}}", "Mailadresse", nil)
		require.Equal(t, "ada@example.com", got)
	})

	t.Run("empty email column yields empty address", func(t *testing.T) {
		t.Parallel()

		got := template.Resolve(row, nil, "[{{Mail}}]", "", nil)
		require.Equal(t, "[]", got)
	})
}

func TestResolve_Idempotent(t *testing.T) {
	t.Parallel()

	row := template.Row{"Name": "Ada", "Email": "ada@example.com"}
	first := template.Resolve(row, nil, "Hi {{Name}}, mail: {{Mail}}.", "Email", nil)
	second := template.Resolve(row, nil, first, "Email", nil)

	require.Equal(t, first, second)
}

func TestResolve_EmptyValues(t *testing.T) {
	t.Parallel()

	row := template.Row{"A": nil, "B": "nan", "C": "NaN"}
	got := template.Resolve(row, nil, "[{{A}}][{{B}}][{{C}}]", "", nil)

	require.Equal(t, "[][][]", got)
}

func TestText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", template.Text(nil))
	require.Equal(t, "", template.Text("nan"))
	require.Equal(t, "", template.Text("  NaN "))
	require.Equal(t, "hello", template.Text("  hello "))
	require.Equal(t, "42", template.Text(42))
	require.Equal(t, "2.5", template.Text(2.5))
}

func TestNewVariableMap(t *testing.T) {
	t.Parallel()

	t.Run("trims names and braces", func(t *testing.T) {
		t.Parallel()

		vm, err := template.NewVariableMap(map[string]string{" {{Greeting}} ": " col "})
		require.NoError(t, err)
		require.Equal(t, template.VariableMap{"Greeting": "col"}, vm)
	})

	t.Run("drops empty entries", func(t *testing.T) {
		t.Parallel()

		vm, err := template.NewVariableMap(map[string]string{"": "col", "Name": ""})
		require.NoError(t, err)
		require.Empty(t, vm)
	})

	t.Run("rejects reserved Mail in any case", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"mail", "Mail", "MAIL"} {
			_, err := template.NewVariableMap(map[string]string{name: "col"})
			require.ErrorIs(t, err, template.ErrReservedVariable, name)
		}
	})
}

func TestVariableMap_WithLegacyColumns(t *testing.T) {
	t.Parallel()

	t.Run("synthesizes aliases", func(t *testing.T) {
		t.Parallel()

		vm := template.VariableMap{}.WithLegacyColumns("first", "last")
		require.Equal(t, template.VariableMap{
			"FirstName": "first",
			"Vorname":   "first",
			"LastName":  "last",
			"Name":      "last",
		}, vm)
	})

	t.Run("explicit bindings win", func(t *testing.T) {
		t.Parallel()

		vm := template.VariableMap{"Name": "custom"}.WithLegacyColumns("", "last")
		require.Equal(t, "custom", vm["Name"])
		require.Equal(t, "last", vm["LastName"])
	})

	t.Run("no shorthand leaves map unchanged", func(t *testing.T) {
		t.Parallel()

		vm := template.VariableMap{"A": "b"}.WithLegacyColumns("", "")
		require.Equal(t, template.VariableMap{"A": "b"}, vm)
	})
}
