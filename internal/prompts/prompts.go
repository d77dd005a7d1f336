// Package prompts holds the fixed catalog of instruction templates sent
// to the generative model, plus the builders that wrap them into full
// prompts for problem generation and answer feedback.
package prompts

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// problemTemplates is the ordered catalog of problem instructions. Each
// template describes one flavor of Primary 5 arithmetic word problem; the
// role line and output constraints are added by ComposeProblemPrompt.
var problemTemplates = []string{
	"Generate a math word problem involving addition or subtraction of whole numbers up to 10000, set in an everyday situation like shopping or saving pocket money",
	"Generate a math word problem involving multiplication of a 3-digit number by a 1-digit or 2-digit number, set in a school or sports context",
	"Generate a math word problem involving division with a whole-number answer, for example sharing items equally among friends or packing things into boxes",
	"Generate a math word problem involving decimals with at most two decimal places, such as measuring lengths in metres or amounts of money in dollars",
	"Generate a two-step math word problem that combines two of the four operations, for example buying several items and computing change",
	"Generate a math word problem about fractions of a whole number, such as finding three quarters of a quantity, with a whole-number answer",
}

const (
	problemRole = "You are a Primary 5 tutor."

	problemFormat = `Return the response as a JSON object with exactly two keys: "problem_text" (the full question as a string) and "correct_answer" (the answer as a number, not a string). Also, don't use any formatting style such as markdown.`
)

// Count returns the number of templates in the catalog.
func Count() int { return len(problemTemplates) }

// Validate reports a configuration error when the catalog is empty.
// Meant to be fatal at startup.
func Validate() error {
	if len(problemTemplates) == 0 {
		return fmt.Errorf("problem template catalog is empty")
	}
	return nil
}

// Random returns one template chosen uniformly at random.
func Random() string {
	return problemTemplates[rand.IntN(len(problemTemplates))]
}

// Templates returns a copy of the catalog, for tests and diagnostics.
func Templates() []string {
	out := make([]string, len(problemTemplates))
	copy(out, problemTemplates)
	return out
}

// ComposeProblemPrompt wraps a template with the tutor role and the
// output format constraint.
func ComposeProblemPrompt(template string) string {
	return problemRole + " " + template + ". " + problemFormat
}

// ComposeFeedbackPrompt builds the grading feedback prompt. The correct
// answer always comes from the stored session, never from the caller.
func ComposeFeedbackPrompt(problemText, correctAnswer, userAnswer string, isCorrect bool) string {
	verdict := "incorrect"
	if isCorrect {
		verdict = "correct"
	}

	var b strings.Builder
	b.WriteString("A Primary 5 student has just answered a math problem.\n")
	fmt.Fprintf(&b, "The problem was: %q\n", problemText)
	fmt.Fprintf(&b, "The correct answer is: %s\n", correctAnswer)
	fmt.Fprintf(&b, "The student's answer was: %s\n", userAnswer)
	fmt.Fprintf(&b, "The student's answer was %s.\n\n", verdict)
	b.WriteString("Please provide personalized, encouraging, and educational feedback for the student.\n")
	b.WriteString("- If correct, praise them and briefly reinforce the concept.\n")
	b.WriteString("- If incorrect, gently point out the mistake without giving the direct answer away immediately, and encourage them to try again. Hint at the method if possible.\n\n")
	b.WriteString(`Return the response as a JSON object with one key: {"feedback_text": "..."}.` + "\n")
	b.WriteString("Also don't use any formatting style in the feedback_text value.")
	return b.String()
}
