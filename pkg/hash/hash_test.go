package hash

import "testing"

func TestSHA256Hex(t *testing.T) {
	// Known vector for the empty string.
	got := SHA256Hex("")
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got != want {
		t.Errorf("SHA256Hex(\"\") = %s, want %s", got, want)
	}

	if SHA256Hex("a") == SHA256Hex("b") {
		t.Error("distinct inputs produced identical hashes")
	}
}

func TestRefreshTokenDeterministic(t *testing.T) {
	if RefreshToken("tok") != RefreshToken("tok") {
		t.Error("RefreshToken is not deterministic")
	}
}

func TestShortHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		n       int
		wantLen int
	}{
		{"typical prefix", "192.168.1.1", 12, 12},
		{"full length", "x", 64, 64},
		{"longer than hash", "x", 100, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShortHash(tt.input, tt.n)
			if len(got) != tt.wantLen {
				t.Errorf("ShortHash(%q, %d) length = %d, want %d", tt.input, tt.n, len(got), tt.wantLen)
			}
		})
	}
}
