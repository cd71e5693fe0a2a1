package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	if got := NormalizeDSN("  postgres://u:p@h:5432/db?sslmode=disable  "); got != "postgres://u:p@h:5432/db?sslmode=disable" {
		t.Fatalf("url form mangled: %q", got)
	}
	if got := NormalizeDSN(`"host=localhost user=app dbname=arredo"`); got != "host=localhost user=app dbname=arredo sslmode=disable" {
		t.Fatalf("kv form: %q", got)
	}
	if got := NormalizeDSN("host=h  user=u   dbname=d sslmode=require"); got != "host=h user=u dbname=d sslmode=require" {
		t.Fatalf("expected collapsed spaces, kept sslmode: %q", got)
	}
	if got := NormalizeDSN(""); got != "" {
		t.Fatalf("empty should stay empty: %q", got)
	}
	if got := NormalizeDSN("not a dsn"); got != "not a dsn" {
		t.Fatalf("unknown form should pass through: %q", got)
	}
}

func TestMaskDSN(t *testing.T) {
	if got := MaskDSN("host=h password=secret dbname=d"); got != "host=h password=*** dbname=d" {
		t.Fatalf("kv mask: %q", got)
	}
	if got := MaskDSN("postgres://user:secret@h/db"); got != "postgres://user:***@h/db" {
		t.Fatalf("url mask: %q", got)
	}
}
