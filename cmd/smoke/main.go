// Command smoke exercises a running movies API through the SDK client:
// create a movie, rate it, fetch it back, list the catalog, and print what
// the server returned.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/flicklog/movies-api/pkg/sdk"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "movies API base URL")
	token := flag.String("token", "", "bearer JWT for authenticated calls")
	flag.Parse()

	if *token == "" {
		log.Fatal("a -token is required: create/rate are authenticated endpoints")
	}

	client, err := sdk.New(*baseURL, *token, 10*time.Second)
	if err != nil {
		log.Fatalf("init client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := client.CreateMovie(ctx, sdk.CreateMovieParams{
		Title:         fmt.Sprintf("Smoke Test %d", time.Now().Unix()),
		YearOfRelease: 2024,
		Genres:        []string{"Drama", "Thriller"},
	})
	if err != nil {
		log.Fatalf("create movie: %v", err)
	}
	fmt.Printf("created %s (slug %s)\n", created.ID, created.Slug)

	if err := client.RateMovie(ctx, created.ID, 4); err != nil {
		log.Fatalf("rate movie: %v", err)
	}

	fetched, err := client.GetMovie(ctx, created.Slug)
	if err != nil {
		log.Fatalf("fetch by slug: %v", err)
	}
	fmt.Printf("fetched %q year=%d genres=%v rating=%v userRating=%v\n",
		fetched.Title, fetched.YearOfRelease, fetched.Genres, deref(fetched.Rating), derefInt(fetched.UserRating))

	list, err := client.GetMovies(ctx, sdk.ListOptions{SortBy: "-yearofrelease", PageSize: 5})
	if err != nil {
		log.Fatalf("list movies: %v", err)
	}
	fmt.Printf("catalog: %d total, showing %d\n", list.Total, len(list.Items))
	for _, movie := range list.Items {
		fmt.Printf("  %-40s %d\n", movie.Title, movie.YearOfRelease)
	}

	ratings, err := client.GetMyRatings(ctx)
	if err != nil {
		log.Fatalf("my ratings: %v", err)
	}
	fmt.Printf("my ratings: %d\n", len(ratings))
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
