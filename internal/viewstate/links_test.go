package viewstate

import "testing"

// TestMapEmbedURL проверяет кодирование пункта назначения.
func TestMapEmbedURL(t *testing.T) {
	got := MapEmbedURL("New Delhi")
	want := "https://maps.google.com/maps?q=New%20Delhi&t=&z=13&ie=UTF8&iwloc=&output=embed"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

// TestRentalIcon проверяет выбор значка.
func TestRentalIcon(t *testing.T) {
	if RentalIcon("Car") != "🚘" {
		t.Fatal("expected car icon")
	}
	for _, kind := range []string{"Bike", "Scooter", ""} {
		if RentalIcon(kind) != "🛵" {
			t.Fatalf("expected bike icon for %q", kind)
		}
	}
}
