package extraction

import (
	"fmt"
	"strings"
)

// DeparturePrompt instructs the model to return a single JSON object for one
// player-club pair. Dates must stay at the precision the article supports.
const DeparturePrompt = `You extract football career facts from Wikipedia article text.

Given a player's career section and the club they are recorded as having joined, determine when the player left that club.

Respond with JSON only, using this schema:
{
  "found": true or false,
  "club": "club name as written in the article",
  "end_date": "YYYY-MM-DD, YYYY-MM, or YYYY",
  "precision": "day", "month", or "year",
  "evidence": "the sentence from the article that states the departure"
}

Rules:
- Use only information stated in the provided text. Never guess or infer dates.
- Match the date precision to the text: a transfer "in summer 2018" is year precision "2018", not an invented month or day.
- If the player still plays for the club, or the text never mentions leaving it, respond with {"found": false}.
- The evidence field must quote the article verbatim.`

// BuildUserPrompt renders the per-player prompt body.
func BuildUserPrompt(playerName, clubName, startDate, careerText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Player: %s\n", playerName)
	fmt.Fprintf(&b, "Club joined: %s\n", clubName)
	if startDate != "" {
		fmt.Fprintf(&b, "Recorded start date: %s\n", startDate)
	}
	b.WriteString("\nCareer section:\n\n")
	b.WriteString(careerText)
	return b.String()
}
