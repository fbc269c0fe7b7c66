package simulate

import (
	"fmt"

	"github.com/okian/fiesta/internal/domain/quiz"
)

var firstNames = []string{
	"Alex", "Maria", "Ivan", "Sofia", "Daniel", "Nina", "Pavel", "Elena",
	"Marco", "Lucia", "Omar", "Greta", "Tomas", "Irene", "Viktor", "Anna",
}

var lastNames = []string{
	"Rivera", "Petrov", "Novak", "Keller", "Moretti", "Sanchez", "Lind",
	"Orlov", "Haddad", "Berg", "Castro", "Meyer", "Sato", "Walsh",
}

// participantName builds a deterministic two-word display name for index i.
func participantName(i int) string {
	first := firstNames[i%len(firstNames)]
	last := lastNames[(i/len(firstNames))%len(lastNames)]
	return fmt.Sprintf("%s %s", first, last)
}

// buildScript produces the full message sequence for one simulated
// participant. Even indexes join on-site, odd indexes join remote and
// play one quiz to completion with all answers correct.
func buildScript(i int, defs []quiz.Definition) []string {
	remote := i%2 == 1

	script := []string{"/start"}
	if remote {
		script = append(script, "remote")
	} else {
		script = append(script, "onsite")
	}
	script = append(script, "register", participantName(i))

	if remote && len(defs) > 0 {
		def := defs[(i/2)%len(defs)]
		script = append(script, "play", "quiz:"+def.ID)
		for _, round := range def.Rounds {
			script = append(script, round.Answer)
		}
	}

	// "score" asks for a query; answering with the own display name
	// exercises the name lookup path.
	script = append(script, "score", participantName(i), "leaderboard")
	return script
}
