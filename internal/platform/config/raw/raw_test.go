package raw

import "testing"

func TestConfGet(t *testing.T) {
	t.Setenv("APP_NAME", " attractor ")
	t.Setenv("LOG_LEVEL", " info ")

	root := New()
	log := root.Prefix("LOG_")

	tests := []struct {
		name string
		conf Conf
		key  string
		def  string
		want string
	}{
		{name: "root", conf: root, key: "APP_NAME", def: "x", want: "attractor"},
		{name: "prefixed hit", conf: log, key: "LEVEL", def: "x", want: "info"},
		{name: "missing returns default", conf: log, key: "MISSING", def: "defv", want: "defv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.conf.Get(tt.key, tt.def); got != tt.want {
				t.Fatalf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfLookup(t *testing.T) {
	c := New().Prefix("LOG_")
	t.Setenv("LOG_FORMAT", "   ")
	if _, ok := c.Lookup("FORMAT"); ok {
		t.Fatalf("blank value should not count as set")
	}
	t.Setenv("LOG_FORMAT", " json ")
	if v, ok := c.Lookup("FORMAT"); !ok || v != "json" {
		t.Fatalf("Lookup = %q %v", v, ok)
	}
}

func TestConfGetBool(t *testing.T) {
	c := New().Prefix("B_")
	t.Setenv("B_T1", "true")
	t.Setenv("B_T2", "1")
	t.Setenv("B_T3", "YES")
	t.Setenv("B_T4", " on ")
	t.Setenv("B_F1", "false")
	t.Setenv("B_F2", "nah")

	tests := []struct {
		key  string
		def  bool
		want bool
	}{
		{"T1", false, true},
		{"T2", false, true},
		{"T3", false, true},
		{"T4", false, true},
		{"F1", true, false},
		{"F2", true, false},
		{"MISSING", true, true},
		{"MISSING", false, false},
	}
	for _, tt := range tests {
		if got := c.GetBool(tt.key, tt.def); got != tt.want {
			t.Fatalf("GetBool(%q, %v) = %v, want %v", tt.key, tt.def, got, tt.want)
		}
	}
}

func TestConfGetInt(t *testing.T) {
	c := New().Prefix("SYS_")
	t.Setenv("SYS_OK", "42")
	t.Setenv("SYS_WS", "  7  ")
	t.Setenv("SYS_NONNUM", "12x")
	t.Setenv("SYS_NEG", "-5")

	tests := []struct {
		key  string
		def  int
		want int
	}{
		{"OK", 0, 42},
		{"WS", 1, 7},
		{"NONNUM", 9, 9},
		{"NEG", 3, 3},
		{"MISSING", 11, 11},
	}
	for _, tt := range tests {
		if got := c.GetInt(tt.key, tt.def); got != tt.want {
			t.Fatalf("GetInt(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}
