package persona

import (
	"fmt"
	"time"

	"github.com/Divyaprakash17/persona-generator/pkg/reddit"
)

// systemInstruction frames every generation request.
const systemInstruction = "You are a professional user researcher. Analyze the provided " +
	"Reddit user data and create a detailed user persona. Be specific and include direct " +
	"references to the user's comments and posts to support your analysis."

// buildPrompt injects the account header and the formatted activity into the
// persona prompt template.
func buildPrompt(profile reddit.AccountProfile, activity string, commentCount, postCount int) string {
	accountAge := ""
	if profile.CreatedUTC > 0 {
		created := time.Unix(int64(profile.CreatedUTC), 0).UTC()
		accountAge = fmt.Sprintf(" (Account created: %s)", created.Format("2006-01-02"))
	}
	return fmt.Sprintf(personaPrompt(), profile.Username, accountAge, commentCount, postCount, activity)
}

// personaPrompt returns the persona template. Every claim the model makes must
// carry a direct quote with subreddit and date so readers can verify it.
func personaPrompt() string {
	return `Analyze the provided Reddit user's activity and generate a comprehensive persona.
For EVERY characteristic or claim, include a direct citation from their posts/comments.

USER: %s%s
Comments analyzed: %d
Posts analyzed: %d

USER ACTIVITY DATA:
%s

PERSONA FORMAT (FOLLOW EXACTLY):

🧑‍💻 Occupation:
- [Detailed description with evidence]
- "[Direct quote]" – r/[subreddit] [DD/MM/YYYY]

📍 Location:
- [Location details with evidence]
- "[Direct quote]" – r/[subreddit] [DD/MM/YYYY]

🧠 PERSONALITY:
- [Trait 1] - [Description]
  - "[Supporting quote]" – r/[subreddit] [DD/MM/YYYY]
- [Trait 2] - [Description]
  - "[Supporting quote]" – r/[subreddit] [DD/MM/YYYY]

💡 MOTIVATIONS:
- [Motivation 1] - [Description]
  - "[Supporting quote]" – r/[subreddit] [DD/MM/YYYY]
- [Motivation 2] - [Description]
  - "[Supporting quote]" – r/[subreddit] [DD/MM/YYYY]

🔄 BEHAVIORS & HABITS:
- [Behavior 1] - [Description]
  - "[Supporting quote]" – r/[subreddit] [DD/MM/YYYY]
- [Behavior 2] - [Description]
  - "[Supporting quote]" – r/[subreddit] [DD/MM/YYYY]

😤 FRUSTRATIONS:
- [Frustration 1] - [Description]
  - "[Supporting quote]" – r/[subreddit] [DD/MM/YYYY]
- [Frustration 2] - [Description]
  - "[Supporting quote]" – r/[subreddit] [DD/MM/YYYY]

🎯 GOALS & NEEDS:
- [Goal 1] - [Description]
  - "[Supporting quote]" – r/[subreddit] [DD/MM/YYYY]
- [Goal 2] - [Description]
  - "[Supporting quote]" – r/[subreddit] [DD/MM/YYYY]

📝 EVIDENCE:
- "[Most representative quote 1]" – r/[subreddit] [DD/MM/YYYY]
- "[Most representative quote 2]" – r/[subreddit] [DD/MM/YYYY]
- "[Most representative quote 3]" – r/[subreddit] [DD/MM/YYYY]

CRITICAL INSTRUCTIONS:
1. FOR EVERY characteristic, include at least one direct quote with source
2. Format citations as: "[quote]" – r/subreddit [DD/MM/YYYY]
3. Include the date of each cited post/comment in DD/MM/YYYY format
4. If a section has no evidence, omit it entirely
5. Be specific and avoid generic statements
6. Maintain a neutral, objective tone
7. Focus on the most significant and well-supported insights
8. For the EVIDENCE section, choose the 3 most representative quotes
9. Include context when necessary to understand the quote
10. Never make assumptions without clear evidence

The user will be verifying the accuracy of your citations, so be precise!`
}
