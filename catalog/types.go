// Package catalog exports the RAWG game catalog to local JSON files.
package catalog

// Images.Background is nil when the catalog has no background image and is
// written as null.
type Images struct {
	Background  *string  `json:"background"`
	Screenshots []string `json:"screenshots"`
}

// Game is the normalized record written to disk.
type Game struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
	Tags   []string `json:"tags"`
	Images Images   `json:"images"`
}

type named struct {
	Name string `json:"name"`
}

type screenshot struct {
	Image string `json:"image"`
}

type rawGame struct {
	ID              int          `json:"id"`
	Name            string       `json:"name"`
	Genres          []named      `json:"genres"`
	Tags            []named      `json:"tags"`
	BackgroundImage *string      `json:"background_image"`
	ShortScreens    []screenshot `json:"short_screenshots"`
}

type page struct {
	Count   int       `json:"count"`
	Next    string    `json:"next"`
	Results []rawGame `json:"results"`
}

func (g rawGame) normalize() Game {
	out := Game{
		ID:     g.ID,
		Title:  g.Name,
		Genres: make([]string, 0, len(g.Genres)),
		Tags:   make([]string, 0, len(g.Tags)),
		Images: Images{
			Background:  g.BackgroundImage,
			Screenshots: make([]string, 0, len(g.ShortScreens)),
		},
	}
	for _, x := range g.Genres {
		out.Genres = append(out.Genres, x.Name)
	}
	for _, x := range g.Tags {
		out.Tags = append(out.Tags, x.Name)
	}
	for _, s := range g.ShortScreens {
		out.Images.Screenshots = append(out.Images.Screenshots, s.Image)
	}
	return out
}
