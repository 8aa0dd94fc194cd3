package model

import "time"

// Quote is a stored saying ("Spruch") with its author.
// The JSON names follow the public API, which keeps the German "autor" key.
type Quote struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"autor"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultQuotes are inserted into an empty store on startup when seeding is enabled.
var DefaultQuotes = []Quote{
	{Text: "Der Weg ist das Ziel.", Author: "Konfuzius"},
	{Text: "Phantasie ist wichtiger als Wissen, denn Wissen ist begrenzt.", Author: "Albert Einstein"},
	{Text: "Das Leben ist, was passiert, während du eifrig dabei bist, andere Pläne zu machen.", Author: "John Lennon"},
	{Text: "Sei du selbst; alle anderen sind bereits vergeben.", Author: "Oscar Wilde"},
	{Text: "Der größte Ruhm im Leben liegt nicht darin, nie zu fallen, sondern jedes Mal wieder aufzustehen.", Author: "Nelson Mandela"},
}
