package fileserver

import "testing"

func TestResolvePathJoinsUnderRoot(t *testing.T) {
	p, ok := resolvePath("/srv/www", "/a/b.html")
	if !ok {
		t.Fatal("resolvePath rejected a valid path")
	}
	want := "/srv/www/a/b.html"
	if p != want {
		t.Fatalf("resolvePath = %q, want %q", p, want)
	}
}

func TestResolvePathRejectsTraversal(t *testing.T) {
	if _, ok := resolvePath("/srv/www", "/../etc/passwd"); ok {
		t.Fatal("resolvePath allowed a path escaping root")
	}
	if _, ok := resolvePath("/srv/www", "/a/../../etc/passwd"); ok {
		t.Fatal("resolvePath allowed a path escaping root via nested ..")
	}
}

func TestResolvePathRejectsNonAbsoluteURI(t *testing.T) {
	if _, ok := resolvePath("/srv/www", "a/b.html"); ok {
		t.Fatal("resolvePath accepted a URI not beginning with /")
	}
	if _, ok := resolvePath("/srv/www", ""); ok {
		t.Fatal("resolvePath accepted an empty URI")
	}
}

func TestResolvePathRootMapsToIndex(t *testing.T) {
	p, ok := resolvePath("/srv/www", "/")
	if !ok {
		t.Fatal("resolvePath rejected /")
	}
	if p != "/srv/www/index.html" {
		t.Fatalf("resolvePath(\"/\") = %q, want .../index.html", p)
	}
}

func TestDetectContentType(t *testing.T) {
	cases := map[string]string{
		"index.html":  "text/html; charset=utf-8",
		"data.json":   "application/json",
		"icon.ico":    "image/x-icon",
		"font.woff2":  "font/woff2",
		"unknownext":  defaultContentType,
		"noextension": defaultContentType,
	}
	for name, want := range cases {
		if got := detectContentType(name); got != want {
			t.Errorf("detectContentType(%q) = %q, want %q", name, got, want)
		}
	}
}
