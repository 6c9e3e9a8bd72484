package ideas

import "testing"

func TestRedact(t *testing.T) {
	tests := []struct {
		name       string
		idea       Idea
		wantAuthor string
	}{
		{
			name:       "anonymous hides author",
			idea:       Idea{AuthorID: "u1", AuthorName: "Ana", Anonymous: true},
			wantAuthor: "",
		},
		{
			name:       "named idea keeps author",
			idea:       Idea{AuthorID: "u1", AuthorName: "Ana", Anonymous: false},
			wantAuthor: "u1",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := tc.idea.Redact()
			if got.AuthorID != tc.wantAuthor {
				t.Fatalf("AuthorID = %q, want %q", got.AuthorID, tc.wantAuthor)
			}
			if tc.idea.Anonymous && got.AuthorName != "" {
				t.Fatalf("AuthorName should be empty, got %q", got.AuthorName)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusNew, StatusReviewing, StatusAdopted, StatusRejected} {
		if !ValidStatus(status) {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	for _, status := range []string{"", "archived", "NEW"} {
		if ValidStatus(status) {
			t.Fatalf("expected %q to be invalid", status)
		}
	}
}
