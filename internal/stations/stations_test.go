package stations

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStations(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stations.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeStations(t, `# name,url,lang,cc
FranceInfo,http://stream.example/fi,fr,FR
BBCWorld,http://stream.example/bbc,en,gb
RadioExterior,http://stream.example/ree,es
`)

	meta, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(meta) != 3 {
		t.Fatalf("len(meta) = %d, want 3", len(meta))
	}

	fi := meta["FranceInfo"]
	if fi.Language != "fr" || fi.Country != "FR" {
		t.Errorf("FranceInfo = %+v, want lang fr country FR", fi)
	}

	// Country codes are uppercased on read
	if got := meta["BBCWorld"].Country; got != "GB" {
		t.Errorf("BBCWorld country = %q, want GB", got)
	}

	// 3-field rows load with no country code
	if got := meta["RadioExterior"].Country; got != "" {
		t.Errorf("RadioExterior country = %q, want empty", got)
	}
}

func TestLoadSkipsShortAndEmptyRows(t *testing.T) {
	path := writeStations(t, `OnlyName
NameAndURL,http://stream.example/x
,http://stream.example/y,fr
NoLang,http://stream.example/z,
Valid,http://stream.example/v,de
`)

	meta, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(meta) != 1 {
		t.Errorf("len(meta) = %d, want 1", len(meta))
	}
	if _, ok := meta["Valid"]; !ok {
		t.Error("Valid row missing from result")
	}
}

func TestLoadCountryCodeLength(t *testing.T) {
	path := writeStations(t, `TooLong,http://x,fr,FRA
TooShort,http://x,fr,F
Exact,http://x,fr,fr
`)

	meta, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := meta["TooLong"].Country; got != "" {
		t.Errorf("TooLong country = %q, want empty", got)
	}
	if got := meta["TooShort"].Country; got != "" {
		t.Errorf("TooShort country = %q, want empty", got)
	}
	if got := meta["Exact"].Country; got != "FR" {
		t.Errorf("Exact country = %q, want FR", got)
	}
}

func TestLoadDuplicateLastWins(t *testing.T) {
	path := writeStations(t, `Station,http://x,fr,FR
Station,http://y,en,GB
`)

	meta, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	st := meta["Station"]
	if st.Language != "en" || st.Country != "GB" {
		t.Errorf("Station = %+v, want last row (en, GB)", st)
	}
}

func TestLoadQuotedFieldsAndExtras(t *testing.T) {
	path := writeStations(t, `"Radio, Int","http://x",nl,NL,Mozilla/5.0,http://referer
`)

	meta, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	st, ok := meta["Radio, Int"]
	if !ok {
		t.Fatal("quoted station name missing")
	}
	if st.Language != "nl" || st.Country != "NL" {
		t.Errorf("Station = %+v, want (nl, NL)", st)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeStations(t, "# just a comment\n\n")

	meta, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(meta) != 0 {
		t.Errorf("len(meta) = %d, want 0", len(meta))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("Load() should return error for missing file")
	}
}
