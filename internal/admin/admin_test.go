package admin

import "testing"

func TestHashAndVerifyAdminToken(t *testing.T) {
	hash, err := HashAdminToken("s3cret")
	if err != nil {
		t.Fatalf("HashAdminToken: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("token stored in plain text")
	}
	if !VerifyAdminToken(hash, "s3cret") {
		t.Error("correct token rejected")
	}
	if VerifyAdminToken(hash, "guess") {
		t.Error("wrong token accepted")
	}
	if VerifyAdminToken("", "s3cret") {
		t.Error("empty hash must reject everything")
	}
	if _, err := HashAdminToken(""); err == nil {
		t.Error("empty token should not hash")
	}
}
