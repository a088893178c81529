package schema

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespacesStable(t *testing.T) {
	assert.Equal(t, []string{"users", "los", "lms", "merchant", "shared"}, Namespaces())
}

func TestEnumsWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, enum := range Enums() {
		assert.False(t, seen[enum.Name], "duplicate enum type %s", enum.Name)
		seen[enum.Name] = true

		require.NotEmpty(t, enum.Values, enum.Name)
		values := map[string]bool{}
		for _, v := range enum.Values {
			assert.NotEmpty(t, v, enum.Name)
			assert.False(t, values[v], "duplicate value %q in enum %s", v, enum.Name)
			values[v] = true
		}
	}
}

func TestModelTableNamesQualifiedAndUnique(t *testing.T) {
	namespaces := map[string]bool{}
	for _, ns := range Namespaces() {
		namespaces[ns] = true
	}

	seen := map[string]bool{}
	for _, model := range Models() {
		namer, ok := model.(interface{ TableName() string })
		require.True(t, ok, "%T must declare its table name", model)

		name := namer.TableName()
		parts := strings.SplitN(name, ".", 2)
		require.Len(t, parts, 2, "%s must be schema-qualified", name)
		assert.True(t, namespaces[parts[0]], "%s uses unknown namespace %s", name, parts[0])

		assert.False(t, seen[name], "table %s registered twice", name)
		seen[name] = true
	}
}

// Every enum column type referenced by a model tag must have a registered
// enum definition, or migration would fail on an undefined type.
func TestEnumColumnsAllRegistered(t *testing.T) {
	registered := map[string]bool{}
	for _, enum := range Enums() {
		registered[enum.Name] = true
	}

	// Column types handled natively by the database.
	builtin := map[string]bool{"uuid": true, "date": true, "jsonb": true, "text": true}

	for _, model := range Models() {
		typ := reflect.TypeOf(model).Elem()
		checkEnumTags(t, typ, registered, builtin)
	}
}

func checkEnumTags(t *testing.T, typ reflect.Type, registered, builtin map[string]bool) {
	t.Helper()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			checkEnumTags(t, field.Type, registered, builtin)
			continue
		}
		tag := field.Tag.Get("gorm")
		for _, part := range strings.Split(tag, ";") {
			colType, ok := strings.CutPrefix(part, "type:")
			if !ok {
				continue
			}
			if strings.ContainsAny(colType, "(") || builtin[colType] {
				continue
			}
			assert.True(t, registered[colType],
				"%s.%s references unregistered enum type %s", typ.Name(), field.Name, colType)
		}
	}
}
