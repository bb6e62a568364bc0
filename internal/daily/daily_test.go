package daily

import (
	"testing"
	"time"
)

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	ts := time.Date(2024, 3, 2, 5, 0, 0, 0, loc) // 2024-03-01 20:00 UTC
	if got := DateKey(ts); got != "2024-03-01" {
		t.Fatalf("DateKey=%q want 2024-03-01", got)
	}
}

func TestSeedStablePerDay(t *testing.T) {
	morning := time.Date(2024, 5, 10, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 10, 23, 0, 0, 0, time.UTC)
	next := time.Date(2024, 5, 11, 1, 0, 0, 0, time.UTC)

	a, b := Seed(morning, "salt"), Seed(evening, "salt")
	if a != b {
		t.Fatalf("same day seeds differ: %d %d", a, b)
	}
	if a <= 0 {
		t.Fatalf("seed %d should be positive", a)
	}
	if Seed(next, "salt") == a {
		t.Fatal("next day should get a different seed")
	}
	if Seed(morning, "other") == a {
		t.Fatal("salt should change the seed")
	}
}
