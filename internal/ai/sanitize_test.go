package ai

import (
	"errors"
	"testing"
)

func TestExtractSongs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "bare document",
			text: `{"songs":[{"title":"Take On Me","artist":"a-ha","url":"https://www.youtube.com/watch?v=djV11Xbc914"}]}`,
			want: 1,
		},
		{
			name: "json fence",
			text: "```json\n{\"songs\":[{\"title\":\"Africa\",\"artist\":\"Toto\",\"url\":\"https://www.youtube.com/watch?v=FTQbiNvZqaY\"}]}\n```",
			want: 1,
		},
		{
			name: "surrounding prose",
			text: "Here is your playlist:\n{\"songs\":[{\"title\":\"Hungry Like the Wolf\",\"artist\":\"Duran Duran\",\"url\":\"https://www.youtube.com/watch?v=oJL-lCzEXgI\"},{\"title\":\"Jump\",\"artist\":\"Van Halen\",\"url\":\"https://www.youtube.com/watch?v=SwYN7mTi6HM\"}]}\nEnjoy!",
			want: 2,
		},
		{
			name: "prose and fence",
			text: "Sure! ```json\n{\"songs\":[{\"title\":\"Maniac\",\"artist\":\"Michael Sembello\",\"url\":\"https://www.youtube.com/watch?v=eD9zHuQIv9o\"}]}\n``` Hope that helps.",
			want: 1,
		},
		{
			name: "missing songs field",
			text: `{"playlist": "empty"}`,
			want: 0,
		},
		{
			name: "empty songs array",
			text: `{"songs": []}`,
			want: 0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			songs, err := ExtractSongs(test.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(songs) != test.want {
				t.Fatalf("expected %d songs, got %d", test.want, len(songs))
			}
		})
	}
}

func TestExtractSongsRecoversExactSpan(t *testing.T) {
	songs, err := ExtractSongs("noise { before\n{\"songs\":[{\"title\":\"T\",\"artist\":\"A\",\"url\":\"u\"}]}")
	// The first "{" opens an unbalanced span, so this particular input cannot
	// be decoded; the failure must be a ParseError, never a panic or partial.
	if err == nil {
		t.Fatalf("expected error, got %v", songs)
	}
}

func TestExtractSongsParseError(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "no braces", text: "sorry, I could not find anything"},
		{name: "open brace only", text: "{\"songs\": ["},
		{name: "close brace only", text: "songs }"},
		{name: "invalid json", text: "{songs: nope}"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ExtractSongs(test.text)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestExtractSongsPreservesOrder(t *testing.T) {
	songs, err := ExtractSongs(`{"songs":[{"title":"One","artist":"X","url":"u1"},{"title":"Two","artist":"Y","url":"u2"},{"title":"Three","artist":"Z","url":"u3"}]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"One", "Two", "Three"}
	for i, title := range want {
		if songs[i].Title != title {
			t.Fatalf("position %d: expected %q, got %q", i, title, songs[i].Title)
		}
	}
}
