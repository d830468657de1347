package passkeys

import (
	"bytes"
	"context"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/ente-io/passkeys-go/internal/platform/errors"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("passkeys", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.APIURL != "https://api.ente.io" {
		t.Fatalf("APIURL = %q, want https://api.ente.io", cfg.APIURL)
	}
	if cfg.ClientPackage != "io.ente.accounts.web" {
		t.Fatalf("ClientPackage = %q, want io.ente.accounts.web", cfg.ClientPackage)
	}
	if cfg.Command != "" {
		t.Fatalf("Command = %q, want empty", cfg.Command)
	}
}

func TestParseConfigFlagsAndSubcommand(t *testing.T) {
	fs := flag.NewFlagSet("passkeys", flag.ContinueOnError)
	args := []string{"-api-url", "http://localhost:8080", "-token", "tok", "rename", "pk-1", "Laptop"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" {
		t.Fatalf("APIURL = %q, want flag value", cfg.APIURL)
	}
	if cfg.AuthToken != "tok" {
		t.Fatalf("AuthToken = %q, want tok", cfg.AuthToken)
	}
	if cfg.Command != "rename" {
		t.Fatalf("Command = %q, want rename", cfg.Command)
	}
	if len(cfg.Args) != 2 || cfg.Args[0] != "pk-1" || cfg.Args[1] != "Laptop" {
		t.Fatalf("Args = %v, want [pk-1 Laptop]", cfg.Args)
	}
}

func TestParseConfigEnvOverride(t *testing.T) {
	t.Setenv("ENTE_PASSKEYS_API_URL", "http://env.example:9999")
	t.Setenv("ENTE_PASSKEYS_AUTH_TOKEN", "env-token")

	fs := flag.NewFlagSet("passkeys", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"list"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.APIURL != "http://env.example:9999" {
		t.Fatalf("APIURL = %q, want env value", cfg.APIURL)
	}
	if cfg.AuthToken != "env-token" {
		t.Fatalf("AuthToken = %q, want env-token", cfg.AuthToken)
	}
	if cfg.Command != "list" {
		t.Fatalf("Command = %q, want list", cfg.Command)
	}
}

func TestRunRequiresToken(t *testing.T) {
	err := Run(context.Background(), Config{APIURL: "http://unused.invalid"}, io.Discard)
	if kind := apperrors.KindOf(err); kind != apperrors.KindInvalidInput {
		t.Fatalf("KindOf() = %q, want %q", kind, apperrors.KindInvalidInput)
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	cfg := Config{APIURL: "http://unused.invalid", AuthToken: "tok", Command: "frobnicate"}
	err := Run(context.Background(), cfg, io.Discard)
	if kind := apperrors.KindOf(err); kind != apperrors.KindInvalidInput {
		t.Fatalf("KindOf() = %q, want %q", kind, apperrors.KindInvalidInput)
	}
}

func TestRunList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/passkeys" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"passkeys":[{"id":"pk-1","friendlyName":"Laptop","createdAt":1700000000000}]}`)
	}))
	defer server.Close()

	var out bytes.Buffer
	cfg := Config{APIURL: server.URL, AuthToken: "tok", ClientPackage: "io.ente.cli", Command: "list"}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "pk-1") || !strings.Contains(got, "Laptop") {
		t.Fatalf("list output missing passkey row:\n%s", got)
	}
	if !strings.Contains(got, "2023-11-14T22:13:20Z") {
		t.Fatalf("list output missing formatted timestamp:\n%s", got)
	}
}

func TestRunListEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"passkeys":[]}`)
	}))
	defer server.Close()

	var out bytes.Buffer
	cfg := Config{APIURL: server.URL, AuthToken: "tok", Command: ""}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.Contains(out.String(), "no passkeys registered") {
		t.Fatalf("empty list output = %q", out.String())
	}
}

func TestRunRename(t *testing.T) {
	var gotMethod, gotPath, gotName string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotName = r.URL.Query().Get("friendlyName")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := Config{APIURL: server.URL, AuthToken: "tok", Command: "rename", Args: []string{"pk-1", "Work Laptop"}}
	if err := Run(context.Background(), cfg, io.Discard); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/passkeys/pk-1" || gotName != "Work Laptop" {
		t.Fatalf("rename request = %s %s friendlyName=%q", gotMethod, gotPath, gotName)
	}
}

func TestRunRenameUsage(t *testing.T) {
	cfg := Config{APIURL: "http://unused.invalid", AuthToken: "tok", Command: "rename", Args: []string{"pk-1"}}
	err := Run(context.Background(), cfg, io.Discard)
	if kind := apperrors.KindOf(err); kind != apperrors.KindInvalidInput {
		t.Fatalf("KindOf() = %q, want %q", kind, apperrors.KindInvalidInput)
	}
}

func TestRunDelete(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := Config{APIURL: server.URL, AuthToken: "tok", Command: "delete", Args: []string{"pk-2"}}
	if err := Run(context.Background(), cfg, io.Discard); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/passkeys/pk-2" {
		t.Fatalf("delete request = %s %s", gotMethod, gotPath)
	}
}
