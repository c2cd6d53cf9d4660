package stations

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Station holds the transcription metadata for one radio station.
type Station struct {
	Name     string
	Language string // ISO-639-1 hint passed to the transcription service
	Country  string // 2-letter code, empty when the stations file has none
}

// Load parses a stations CSV file into a name-keyed map.
//
// Each line is `name,url,language[,country][,extra...]`. Blank lines and
// lines starting with '#' are skipped. Rows with fewer than 3 fields or an
// empty name or language are dropped. The 4th field is stored as a country
// code only when it is exactly 2 characters, uppercased. Later rows with a
// duplicate name overwrite earlier ones. A file with no valid rows yields
// an empty map, not an error.
func Load(path string) (map[string]Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stations file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse stations file: %w", err)
	}

	meta := make(map[string]Station)
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}

		name, lang := row[0], row[2]
		if name == "" || lang == "" {
			continue
		}

		st := Station{Name: name, Language: lang}
		if len(row) >= 4 && len(row[3]) == 2 {
			st.Country = strings.ToUpper(row[3])
		}
		meta[name] = st
	}

	return meta, nil
}
