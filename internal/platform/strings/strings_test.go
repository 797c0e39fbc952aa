package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	def := []string{"*"}
	if got := IfEmpty(nil, def); len(got) != 1 || got[0] != "*" {
		t.Fatalf("got %v", got)
	}
	if got := IfEmpty([]string{"a"}, def); got[0] != "a" {
		t.Fatalf("got %v", got)
	}
}

func TestMustString(t *testing.T) {
	if MustString("chat", "module") != "chat" {
		t.Fatal("value changed")
	}
	defer func() {
		if r := recover(); r != "module is required" {
			t.Fatalf("recover = %v", r)
		}
	}()
	MustString("  ", "module")
}

func TestMustPrefix(t *testing.T) {
	cases := map[string]string{
		"dashboard":    "/dashboard",
		"/meta/":       "/meta",
		" //catalog/ ": "/catalog",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	defer func() {
		if recover() == nil {
			t.Fatal("root should panic")
		}
	}()
	MustPrefix(" / ")
}

func TestSQLNull(t *testing.T) {
	if SQLNull(" ") != nil {
		t.Fatal("blank should be nil")
	}
	if SQLNull("교통") != "교통" {
		t.Fatal("value changed")
	}
}

func TestClip(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"짧은 질문", 50, "짧은 질문"},
		{"가나다라", 2, "가나"},
		{"abc", 0, ""},
	}
	for _, tc := range cases {
		if got := Clip(tc.in, tc.n); got != tc.want {
			t.Fatalf("Clip(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
