package bmeta

import "fmt"

const defaultBuildMeta = "N/A" // Значение по умолчанию

// Meta сведения о сборке, задаются через -ldflags.
type Meta struct {
	Version string
	Date    string
	Commit  string
}

// New подставляет значение по умолчанию вместо пустых полей.
func New(version, date, commit string) Meta {
	return Meta{
		Version: orDefault(version),
		Date:    orDefault(date),
		Commit:  orDefault(commit),
	}
}

// Release идентификатор релиза для отчетов об ошибках: service@version+commit.
func (m Meta) Release(service string) string {
	return fmt.Sprintf("%s@%s+%s", service, m.Version, m.Commit)
}

// Print Распечатывает версию, дату и комит сборки.
func (m Meta) Print() {
	fmt.Printf("Build version: %s\n", m.Version) //nolint:forbidigo
	fmt.Printf("Build date: %s\n", m.Date)       //nolint:forbidigo
	fmt.Printf("Build commit: %s\n", m.Commit)   //nolint:forbidigo
}

func orDefault(v string) string {
	if v == "" {
		return defaultBuildMeta
	}
	return v
}
