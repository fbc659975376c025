package importurl

import "testing"

func TestValidateAccepts(t *testing.T) {
	cases := []string{
		"https://example.com/module.ruchy",
		"https://cdn.example.com/lib.rchy",
		"http://localhost/test.ruchy",
		"http://127.0.0.1/module.ruchy",
	}
	for _, url := range cases {
		if err := Validate(url); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", url, err)
		}
	}
}

func TestValidateRejectsScheme(t *testing.T) {
	if err := Validate("http://evil.com/module.ruchy"); err == nil {
		t.Error("expected plain http to be rejected")
	}
	if err := Validate("ftp://example.com/module.ruchy"); err == nil {
		t.Error("expected ftp to be rejected")
	}
}

func TestValidateRejectsExtension(t *testing.T) {
	if err := Validate("https://example.com/mod.js"); err == nil {
		t.Error("expected non-ruchy extension to be rejected")
	}
}

func TestValidateRejectsPathTraversal(t *testing.T) {
	if err := Validate("https://example.com/../etc/passwd.ruchy"); err == nil {
		t.Error("expected .. traversal to be rejected")
	}
	if err := Validate("https://example.com/.hidden/test.ruchy"); err == nil {
		t.Error("expected /. traversal to be rejected")
	}
}

func TestValidateRejectsSuspiciousPatterns(t *testing.T) {
	for _, url := range []string{"javascript:alert(1)", "data:text/html,<script>", "file:///etc/passwd"} {
		if err := Validate(url); err == nil {
			t.Errorf("expected %q to be rejected", url)
		}
	}
}
