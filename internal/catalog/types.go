package catalog

// Content is the top-level catalog document.
type Content struct {
	DailyAdvice []DailyAdvice `json:"dailyAdvice"`
	Categories  []Category    `json:"categories"`
}

// DailyAdvice is a single rotating etiquette tip.
type DailyAdvice struct {
	ID   string `json:"id"`
	Tip  string `json:"tip"`
	Icon string `json:"sfSymbol"`
}

// Category groups lessons, quiz questions and scenarios under one topic.
type Category struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Subtitle  string         `json:"subtitle"`
	ImageName string         `json:"imageName"`
	Icon      string         `json:"sfSymbol"`
	Lessons   []Lesson       `json:"lessons"`
	Quizzes   []QuizQuestion `json:"quizzes"`
	Scenarios []Scenario     `json:"scenarios"`
}

// Lesson is a readable unit of etiquette content.
type Lesson struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	KeyPoints []string `json:"keyPoints"`
}

// QuizQuestion is a multiple-choice question with one correct option.
type QuizQuestion struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// IsCorrect reports whether choice is the correct option index.
func (q QuizQuestion) IsCorrect(choice int) bool {
	return choice == q.CorrectIndex
}

// Scenario is a role-play question with an explanation shown after answering.
type Scenario struct {
	ID           string   `json:"id"`
	Situation    string   `json:"situation"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// IsCorrect reports whether choice is the correct option index.
func (s Scenario) IsCorrect(choice int) bool {
	return choice == s.CorrectIndex
}
