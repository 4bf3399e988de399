package sanitize

import (
	"errors"
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "trims", input: "  hello  ", max: 10, want: "hello"},
		{name: "strips tags", input: "<b>bold</b> and <i>italic</i>", max: 100, want: "bold and italic"},
		{name: "drops script body", input: "hi<script>alert(1)</script>!", max: 100, want: "hi!"},
		{name: "unescapes entities", input: "fish &amp; chips", max: 100, want: "fish & chips"},
		{name: "keeps newline and tab", input: "a\n\tb\x00c\x07", max: 100, want: "a\n\tbc"},
		{name: "truncates runes", input: "ñandú feliz", max: 5, want: "ñandú"},
		{name: "plain angle bracket", input: "I <3 you", max: 100, want: "I <3 you"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input, tt.max); got != tt.want {
				t.Fatalf("Text(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}

func TestAuthorName(t *testing.T) {
	if got := AuthorName("Brave_Sea-1 <3!"); got != "Brave_Sea-1 3" {
		t.Fatalf("AuthorName = %q", got)
	}
	if got := AuthorName("!!!"); got != DefaultAuthorName {
		t.Fatalf("expected default name, got %q", got)
	}
	if got := AuthorName(strings.Repeat("a", 80)); len(got) != MaxAuthorNameLength {
		t.Fatalf("expected %d chars, got %d", MaxAuthorNameLength, len(got))
	}
}

func TestCategoryID(t *testing.T) {
	for _, id := range []string{"work", "mental_health", "a-1"} {
		if !CategoryID(id) {
			t.Errorf("CategoryID(%q) = false, want true", id)
		}
	}
	for _, id := range []string{"", "with space", "drop;table", strings.Repeat("x", 51)} {
		if CategoryID(id) {
			t.Errorf("CategoryID(%q) = true, want false", id)
		}
	}
}

func TestPost_CleansValidInput(t *testing.T) {
	got, err := Post(PostInput{
		Title:      "  <em>Need</em> advice ",
		Content:    "My boss keeps <b>yelling</b>.",
		CategoryID: "work",
		AuthorName: "",
		ImageURL:   "https://example.com/a.png",
	})
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if got.Title != "Need advice" || got.Content != "My boss keeps yelling." || got.AuthorName != DefaultAuthorName {
		t.Fatalf("unexpected cleaned input: %+v", got)
	}
}

func TestPost_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input PostInput
		field string
	}{
		{name: "empty title", input: PostInput{Title: "   ", Content: "x", CategoryID: "work"}, field: "title"},
		{name: "long title", input: PostInput{Title: strings.Repeat("t", 201), Content: "x", CategoryID: "work"}, field: "title"},
		{name: "long content", input: PostInput{Title: "t", Content: strings.Repeat("c", 5001), CategoryID: "work"}, field: "content"},
		{name: "bad category", input: PostInput{Title: "t", Content: "x", CategoryID: "no way"}, field: "categoryId"},
		{name: "ftp image", input: PostInput{Title: "t", Content: "x", CategoryID: "work", ImageURL: "ftp://x/y.png"}, field: "imageUrl"},
		{name: "markup only", input: PostInput{Title: "t", Content: "<p></p>", CategoryID: "work"}, field: "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Post(tt.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Fatalf("expected field %q in %v", tt.field, verr.Fields)
			}
		})
	}
}

func TestComment(t *testing.T) {
	got, err := Comment(CommentInput{Content: " sending a hug ", AuthorName: "Kind Tree 4"})
	if err != nil {
		t.Fatalf("Comment returned error: %v", err)
	}
	if got.Content != "sending a hug" || got.AuthorName != "Kind Tree 4" {
		t.Fatalf("unexpected comment: %+v", got)
	}

	if _, err := Comment(CommentInput{Content: ""}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
