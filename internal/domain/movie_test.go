package domain

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		year  int
		want  string
	}{
		{"simple", "Street Fighter", 1992, "street-fighter-1992"},
		{"punctuation stripped", "Mission: Impossible!", 1996, "mission-impossible-1996"},
		{"underscores and hyphens kept", "Spider_Man - Homecoming", 2017, "spider_man---homecoming-2017"},
		{"digits kept", "2 Fast 2 Furious", 2003, "2-fast-2-furious-2003"},
		{"unicode stripped", "Amélie", 2001, "amlie-2001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.title, tt.year)
			if got != tt.want {
				t.Fatalf("Slugify(%q, %d) = %q, want %q", tt.title, tt.year, got, tt.want)
			}
			// Slug derivation is pure; a second call must be identical.
			if again := Slugify(tt.title, tt.year); again != got {
				t.Fatalf("Slugify not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestMovieSlugTracksTitleAndYear(t *testing.T) {
	movie := Movie{Title: "Street Fighter", YearOfRelease: 1992}
	if movie.Slug() != "street-fighter-1992" {
		t.Fatalf("Slug() = %q", movie.Slug())
	}

	movie.Title = "Street Fighter II"
	movie.YearOfRelease = 1994
	if movie.Slug() != "street-fighter-ii-1994" {
		t.Fatalf("Slug() after mutation = %q", movie.Slug())
	}
}
