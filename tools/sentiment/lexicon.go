package sentiment

type lexiconEntry struct {
	polarity     float64
	subjectivity float64
}

// lexicon is a compact cut of the pattern sentiment word list: enough
// coverage for conversational English without shipping a corpus.
var lexicon = map[string]lexiconEntry{
	// strongly positive
	"love":       {0.5, 0.6},
	"loved":      {0.7, 0.8},
	"awesome":    {1.0, 1.0},
	"amazing":    {0.6, 0.9},
	"excellent":  {1.0, 1.0},
	"fantastic":  {0.4, 0.9},
	"wonderful":  {1.0, 1.0},
	"perfect":    {1.0, 1.0},
	"brilliant":  {0.9, 0.9},
	"best":       {1.0, 0.3},
	"superb":     {0.8, 0.9},
	"delightful": {0.9, 1.0},

	// positive
	"good":       {0.7, 0.6},
	"great":      {0.8, 0.75},
	"nice":       {0.6, 1.0},
	"happy":      {0.8, 1.0},
	"glad":       {0.5, 1.0},
	"like":       {0.3, 0.4},
	"likes":      {0.3, 0.4},
	"enjoy":      {0.4, 0.5},
	"enjoyed":    {0.4, 0.5},
	"helpful":    {0.5, 0.5},
	"useful":     {0.3, 0.3},
	"fun":        {0.3, 0.2},
	"cool":       {0.35, 0.65},
	"impressive": {0.9, 1.0},
	"solid":      {0.2, 0.3},
	"fast":       {0.2, 0.4},
	"easy":       {0.43, 0.83},
	"works":      {0.2, 0.2},
	"beautiful":  {0.85, 1.0},
	"better":     {0.5, 0.5},
	"recommend":  {0.4, 0.4},

	// negative
	"bad":           {-0.7, 0.67},
	"poor":          {-0.4, 0.6},
	"sad":           {-0.5, 1.0},
	"slow":          {-0.3, 0.4},
	"boring":        {-1.0, 1.0},
	"annoying":      {-0.6, 0.8},
	"disappointed":  {-0.75, 0.75},
	"disappointing": {-0.6, 0.7},
	"broken":        {-0.4, 0.4},
	"difficult":     {-0.5, 1.0},
	"hard":          {-0.29, 0.54},
	"ugly":          {-0.7, 1.0},
	"worse":         {-0.5, 0.5},
	"wrong":         {-0.5, 0.5},
	"useless":       {-0.5, 0.4},
	"buggy":         {-0.5, 0.6},
	"confusing":     {-0.4, 0.7},
	"mediocre":      {-0.3, 0.5},

	// strongly negative
	"hate":       {-0.8, 0.9},
	"hated":      {-0.9, 0.7},
	"awful":      {-1.0, 1.0},
	"terrible":   {-1.0, 1.0},
	"horrible":   {-1.0, 1.0},
	"worst":      {-1.0, 1.0},
	"dreadful":   {-1.0, 1.0},
	"disgusting": {-0.95, 1.0},
	"failure":    {-0.8, 0.7},
}
