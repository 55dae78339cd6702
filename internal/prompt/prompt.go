// Package prompt builds the text prompts sent to the language model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/fadilmartias/career-coach/internal/quiz"
)

const insightTemplate = `
Analyze the current state of the %s industry and provide insights in ONLY the following JSON format without any additional notes or explanations:
{
  "salaryRanges": [
    { "role": "string", "min": number, "max": number, "median": number, "location": "string" }
  ],
  "growthRate": number,
  "demandLevel": "High" | "Medium" | "Low",
  "topSkills": ["skill1", "skill2"],
  "marketOutlook": "Positive" | "Neutral" | "Negative",
  "keyTrends": ["trend1", "trend2"],
  "recommendedSkills": ["skill1", "skill2"],
  "learningResources": [
    { "name": "string", "type": "Course" | "Certification" | "Book" | "Platform", "url": "string (real working URL)", "description": "string (1 sentence)" }
  ],
  "topCompanies": [
    { "name": "string", "industry": "string (specific sector)", "description": "string (1 sentence about why they're notable)" }
  ],
  "jobMarket": {
    "openPositions": "string (estimated range like '50,000-100,000')",
    "remotePercentage": number,
    "topLocations": ["city1", "city2", "city3", "city4", "city5"],
    "averageExperience": "string (e.g. '3-5 years')"
  }
}

IMPORTANT: Return ONLY the JSON. No additional text, notes, or markdown formatting.
Include at least 5 common roles for salary ranges.
Growth rate should be a percentage.
Include at least 5 skills and trends.
Include at least 5 learning resources with real URLs.
Include at least 5 top companies.
Include at least 5 top locations for job market.
`

// IndustryInsights asks for the market insight document of industry.
func IndustryInsights(industry string) string {
	return fmt.Sprintf(insightTemplate, industry)
}

var difficultyDescriptions = map[string]string{
	quiz.DifficultyEasy:   "beginner-friendly and foundational, testing basic concepts and definitions",
	quiz.DifficultyMedium: "intermediate-level, testing practical application and understanding",
	quiz.DifficultyHard:   "advanced and challenging, testing deep expertise, edge cases, and complex scenarios",
}

var categoryDescriptions = map[string]string{
	quiz.CategoryTechnical:   "technical knowledge, coding concepts, tools, and technologies",
	quiz.CategoryBehavioral:  "behavioral situations, teamwork, leadership, conflict resolution, and soft skills using the STAR method format",
	quiz.CategorySituational: "hypothetical workplace scenarios, decision-making, problem-solving, and professional judgment",
}

const quizTemplate = `
Generate %d %s difficulty %s interview questions for a %s professional%s.

The questions should be %s.
Focus on %s.

Each question should be multiple choice with %d options.

Return the response in this JSON format only, no additional text:
{
  "questions": [
    {
      "question": "string",
      "options": ["string", "string", "string", "string"],
      "correctAnswer": "string",
      "hint": "A brief conceptual clue that helps the user think about the question without revealing which option is correct. Do NOT mention any option letter or the correct answer.",
      "explanation": "string - full explanation of why the correct answer is right, shown after quiz completion"
    }
  ]
}
`

// Quiz asks for a set of multiple choice interview questions. Unknown
// difficulty and category values fall back to the medium and Technical
// descriptions.
func Quiz(industry string, skills []string, category, difficulty string) string {
	expertise := ""
	if len(skills) > 0 {
		expertise = " with expertise in " + strings.Join(skills, ", ")
	}
	diffDesc, ok := difficultyDescriptions[difficulty]
	if !ok {
		diffDesc = difficultyDescriptions[quiz.DifficultyMedium]
	}
	catDesc, ok := categoryDescriptions[category]
	if !ok {
		catDesc = categoryDescriptions[quiz.CategoryTechnical]
	}
	return fmt.Sprintf(quizTemplate,
		quiz.QuestionsPerQuiz, difficulty, strings.ToLower(category), industry, expertise,
		diffDesc, catDesc, quiz.OptionsPerQuestion)
}

// WrongAnswer is one incorrectly answered or skipped question.
type WrongAnswer struct {
	Question      string
	CorrectAnswer string
	UserAnswer    *string
}

const tipTemplate = `
The user got the following %s %s interview questions wrong (difficulty: %s):

%s

Based on these mistakes, provide a concise, specific improvement tip.
Focus on the knowledge gaps revealed by these wrong answers.
Keep the response under 2 sentences and make it encouraging.
Don't explicitly mention the mistakes, instead focus on what to learn/practice.

Return the response in this JSON format only, no additional text:
{"improvementTip": "string"}
`

func ImprovementTip(industry, category, difficulty string, wrong []WrongAnswer) string {
	items := make([]string, 0, len(wrong))
	for _, w := range wrong {
		user := "Skipped"
		if w.UserAnswer != nil && *w.UserAnswer != "" {
			user = *w.UserAnswer
		}
		items = append(items, fmt.Sprintf("Question: %q\nCorrect Answer: %q\nUser Answer: %q", w.Question, w.CorrectAnswer, user))
	}
	return fmt.Sprintf(tipTemplate, industry, strings.ToLower(category), difficulty, strings.Join(items, "\n\n"))
}
