package quiz

// DefaultCatalog returns the quizzes played at the event. Binary and choice
// rounds score one point, the guess-the-song rounds score two.
func DefaultCatalog() []Definition {
	return []Definition{
		{
			ID:    "binary",
			Title: "Binary Decode",
			Rounds: []Round{
				{
					Prompt: "Decode this byte into a letter: 01001000",
					Kind:   RuleFreeText,
					Answer: "H",
					Points: 1,
				},
				{
					Prompt:   "Decode the word: 01000111 01001111",
					Kind:     RuleFreeText,
					Answer:   "GO",
					Accepted: []string{"go!"},
					Points:   1,
				},
				{
					Prompt:   "What is 101010 in decimal?",
					Kind:     RuleFreeText,
					Answer:   "42",
					Accepted: []string{"fortytwo", "forty two"},
					Points:   1,
				},
			},
		},
		{
			ID:    "aireal",
			Title: "AI or Real",
			Rounds: []Round{
				{
					Prompt:  "A portrait of a smiling chef holding seven identical forks. AI or real?",
					Kind:    RuleChoice,
					Options: []string{"AI", "Real"},
					Answer:  "AI",
					Points:  1,
				},
				{
					Prompt:  "A cat photographed mid-jump over three stacked watermelons. AI or real?",
					Kind:    RuleChoice,
					Options: []string{"AI", "Real"},
					Answer:  "Real",
					Points:  1,
				},
				{
					Prompt:  "A city street where every shadow points in a different direction. AI or real?",
					Kind:    RuleChoice,
					Options: []string{"AI", "Real"},
					Answer:  "AI",
					Points:  1,
				},
				{
					Prompt:  "A diver surrounded by a perfectly circular school of fish. AI or real?",
					Kind:    RuleChoice,
					Options: []string{"AI", "Real"},
					Answer:  "Real",
					Points:  1,
				},
				{
					Prompt:  "A violinist whose bow passes through the strings without touching them. AI or real?",
					Kind:    RuleChoice,
					Options: []string{"AI", "Real"},
					Answer:  "AI",
					Points:  1,
				},
			},
		},
		{
			ID:    "newscheck",
			Title: "News Check",
			Rounds: []Round{
				{
					Prompt:  "True or false: a town once elected a goat as honorary mayor.",
					Kind:    RuleTrueFalse,
					Options: []string{"True", "False"},
					Answer:  "True",
					Points:  1,
				},
				{
					Prompt:  "True or false: scientists taught goldfish to play chess against each other.",
					Kind:    RuleTrueFalse,
					Options: []string{"True", "False"},
					Answer:  "False",
					Points:  1,
				},
				{
					Prompt:  "True or false: an airline once sold tickets for a flight to nowhere.",
					Kind:    RuleTrueFalse,
					Options: []string{"True", "False"},
					Answer:  "True",
					Points:  1,
				},
				{
					Prompt:  "True or false: a country briefly renamed itself after a streaming service.",
					Kind:    RuleTrueFalse,
					Options: []string{"True", "False"},
					Answer:  "False",
					Points:  1,
				},
				{
					Prompt:  "True or false: a marathon was once won by a runner who took a tram mid-race.",
					Kind:    RuleTrueFalse,
					Options: []string{"True", "False"},
					Answer:  "True",
					Points:  1,
				},
			},
		},
		{
			ID:    "emojitunes",
			Title: "Emoji Tunes",
			Rounds: []Round{
				{
					Prompt:   "Guess the song: 👶 🦈",
					Kind:     RuleFreeText,
					Answer:   "Baby Shark",
					Accepted: []string{"babyshark"},
					Points:   2,
				},
				{
					Prompt:   "Guess the song: 🌧️ 👨 ☔",
					Kind:     RuleFreeText,
					Answer:   "It's Raining Men",
					Accepted: []string{"its raining men", "raining men"},
					Points:   2,
				},
				{
					Prompt:   "Guess the song: 💃 👑",
					Kind:     RuleFreeText,
					Answer:   "Dancing Queen",
					Accepted: []string{"dancin queen"},
					Points:   2,
				},
				{
					Prompt:   "Guess the song: 🚀 👨 🎹",
					Kind:     RuleFreeText,
					Answer:   "Rocket Man",
					Accepted: []string{"rocketman"},
					Points:   2,
				},
				{
					Prompt:   "Guess the song: 🌉 🔥",
					Kind:     RuleFreeText,
					Answer:   "London Bridge Is Falling Down",
					Accepted: []string{"london bridge", "london bridge is burning down"},
					Points:   2,
				},
			},
		},
	}
}
