package format

import "testing"

func TestProductName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "pipe attribute and bare liter size",
			in:   "Valio kevytmaito 1 | ESL",
			want: "Valio Kevytmaito 1L (ESL)",
		},
		{
			name: "multiple attributes",
			in:   "Valio vispikerma 1 | UHT laktoositon",
			want: "Valio Vispikerma 1L (UHT, Laktoositon)",
		},
		{
			name: "comma decimal size with explicit unit",
			in:   "Valio rasvaton maito 1,5 l",
			want: "Valio Rasvaton Maito 1,5L",
		},
		{
			name: "dot decimal normalized to comma",
			in:   "Valio jogurtti 0.5 l | laktoositon",
			want: "Valio Jogurtti 0,5L (Laktoositon)",
		},
		{
			name: "gram unit uppercased",
			in:   "Oltermanni juusto 500 g",
			want: "Oltermanni Juusto 500G",
		},
		{
			name: "large bare number gets no default unit",
			in:   "Tuote 500",
			want: "Tuote 500",
		},
		{
			name: "no size token",
			in:   "valio voi",
			want: "Valio Voi",
		},
		{
			name: "acronym preserved in name",
			in:   "valio UHT kerma 2 dl",
			want: "Valio UHT Kerma 2DL",
		},
		{
			name: "comma separated attributes",
			in:   "Valio maito 1 | UHT, laktoositon",
			want: "Valio Maito 1L (UHT, Laktoositon)",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "whitespace around pipe",
			in:   "  valio kerma 2 dl  |  esl  ",
			want: "Valio Kerma 2DL (ESL)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ProductName(tc.in); got != tc.want {
				t.Errorf("ProductName(%q) = %q; want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestLanguage(t *testing.T) {
	cases := map[string]string{
		"fi":      "fi",
		"fi-FI":   "fi",
		"en-US":   "en",
		"sv":      "sv",
		"":        "fi",
		"???":     "fi",
		" en-GB ": "en",
	}
	for in, want := range cases {
		if got := Language(in); got != want {
			t.Errorf("Language(%q) = %q; want %q", in, got, want)
		}
	}
}
