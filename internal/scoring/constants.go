package scoring

// interviewKeywords are the domain keywords that earn a content bonus when
// present in an item's text.
var interviewKeywords = []string{
	"interview",
	"question",
	"technical",
	"coding",
	"problem",
	"solution",
	"assessment",
	"test",
	"challenge",
	"exercise",
	"practice",
	"mock",
	"preparation",
	"guide",
	"tutorial",
}

// credibleSources is the curated allow-list of trusted origins.
var credibleSources = []string{
	"github",
	"leetcode",
	"hackerrank",
	"geeksforgeeks",
	"medium",
	"stackoverflow",
	"reddit",
	"kaggle",
	"datacamp",
	"coursera",
	"edx",
	"udemy",
	"freecodecamp",
	"w3schools",
	"tutorialspoint",
}
