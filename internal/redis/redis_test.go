package redis

import "testing"

func TestConnectRejectsBadURL(t *testing.T) {
	if _, err := Connect("http://localhost:6379"); err == nil {
		t.Error("expected an error for a non-redis scheme")
	}
}
