package pagination

import "testing"

func TestParseSort(t *testing.T) {
	cases := []struct {
		in        string
		field     string
		direction string
	}{
		{"id,DESC", "id", "DESC"},
		{"title,asc", "title", "asc"},
		{"title", "title", ""},
		{"created_at,DESC,extra", "created_at", "DESC,extra"},
		{"", "", ""},
	}
	for _, c := range cases {
		field, direction := ParseSort(c.in)
		if field != c.field || direction != c.direction {
			t.Errorf("ParseSort(%q) = (%q, %q), want (%q, %q)", c.in, field, direction, c.field, c.direction)
		}
	}
}

func TestIsDesc(t *testing.T) {
	if !IsDesc("DESC") || !IsDesc("desc") || !IsDesc("Desc") {
		t.Fatal("DESC variants should be descending")
	}
	// garbled directions fall back to ascending
	for _, dir := range []string{"", "ASC", "descending", "DESK", "down"} {
		if IsDesc(dir) {
			t.Errorf("IsDesc(%q) = true, want false", dir)
		}
	}
}

func TestParseStrictSort(t *testing.T) {
	field, desc, ok := ParseStrictSort("score,DESC", RatingFields)
	if !ok || field != "score" || !desc {
		t.Fatalf("got (%q, %v, %v)", field, desc, ok)
	}
	if _, _, ok := ParseStrictSort("score,DOWN", RatingFields); ok {
		t.Fatal("garbled direction should be rejected")
	}
	if _, _, ok := ParseStrictSort("bogus,ASC", RatingFields); ok {
		t.Fatal("unknown field should be rejected")
	}
	if _, _, ok := ParseStrictSort("Score,ASC", RatingFields); ok {
		t.Fatal("field matching is case-sensitive")
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		size  int
		want  int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{50, 7, 8},
	}
	for _, c := range cases {
		if got := TotalPages(c.total, c.size); got != c.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", c.total, c.size, got, c.want)
		}
	}
}

func TestOffset(t *testing.T) {
	if Offset(1, 10) != 0 {
		t.Fatal("page 1 should start at 0")
	}
	if Offset(3, 20) != 40 {
		t.Fatal("page 3 size 20 should start at 40")
	}
}

func TestFieldSets(t *testing.T) {
	if !BookFields.Has("publication_date") {
		t.Fatal("publication_date should be sortable on books")
	}
	if BookFields.Has("score") {
		t.Fatal("score is not a book field")
	}
	if !UserFields.Has("email") || !CommentFields.Has("content") {
		t.Fatal("entity field sets incomplete")
	}
}
