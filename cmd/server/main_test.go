package main

import "testing"

func TestDatabaseDriver(t *testing.T) {
	cases := []struct {
		driver string
		want   string
	}{
		{"sqlite", "sqlite"},
		{"postgres", "postgres"},
		{"redis", "sqlite"},
		{" Redis ", "sqlite"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := databaseDriver(tc.driver); got != tc.want {
			t.Fatalf("databaseDriver(%q) = %q, want %q", tc.driver, got, tc.want)
		}
	}
}

func TestIsWeakSecret(t *testing.T) {
	if !isWeakSecret("short") {
		t.Fatalf("short secrets must be weak")
	}
	if !isWeakSecret("change-me-in-production-change-me-in-production") {
		t.Fatalf("default-looking secrets must be weak")
	}
	if isWeakSecret("1fb0a3c8c9d24e6f8b17a5d0e3c4b2a1f0e9d8c7") {
		t.Fatalf("long random secrets must pass")
	}
}
