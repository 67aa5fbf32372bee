package mood

import "github.com/moodshelf/moodshelf-server/internal/domain"

// Lookup tables for tag scoring. Keys are in normalized form (see
// internal/normalize) and membership is exact-match only. The first
// listed value of an entry is its primary association; later values are
// secondary.

// moodTags maps a normalized tag to the moods it signals.
var moodTags = map[string][]domain.Mood{
	// comfort
	"cozy":         {domain.MoodComfort, domain.MoodFeels},
	"heartwarming": {domain.MoodComfort, domain.MoodFeels},
	"found family": {domain.MoodComfort, domain.MoodFeels},
	"feel good":    {domain.MoodComfort, domain.MoodLaughs},
	"wholesome":    {domain.MoodComfort},
	"comfort read": {domain.MoodComfort},
	"low stakes":   {domain.MoodComfort},
	"gentle":       {domain.MoodComfort},
	"small town":   {domain.MoodComfort},
	"sweet":        {domain.MoodComfort, domain.MoodFeels},

	// thrills
	"suspense":            {domain.MoodThrills},
	"edge of your seat":   {domain.MoodThrills},
	"page turner":         {domain.MoodThrills, domain.MoodEscape},
	"dark":                {domain.MoodThrills},
	"twisty":              {domain.MoodThrills},
	"creepy":              {domain.MoodThrills},
	"cat and mouse":       {domain.MoodThrills},
	"unreliable narrator": {domain.MoodThrills},

	// escape
	"epic":           {domain.MoodEscape},
	"immersive":      {domain.MoodEscape},
	"worldbuilding":  {domain.MoodEscape},
	"sweeping":       {domain.MoodEscape, domain.MoodFeels},
	"adventure":      {domain.MoodEscape, domain.MoodThrills},
	"portal fantasy": {domain.MoodEscape},
	"quest":          {domain.MoodEscape},

	// growth
	"coming of age":     {domain.MoodGrowth, domain.MoodFeels},
	"self discovery":    {domain.MoodGrowth},
	"thought provoking": {domain.MoodGrowth},
	"inspiring":         {domain.MoodGrowth, domain.MoodComfort},
	"philosophical":     {domain.MoodGrowth},
	"redemption":        {domain.MoodGrowth, domain.MoodFeels},

	// laughs
	"funny":          {domain.MoodLaughs},
	"witty":          {domain.MoodLaughs},
	"laugh out loud": {domain.MoodLaughs},
	"banter":         {domain.MoodLaughs, domain.MoodComfort},
	"satire":         {domain.MoodLaughs, domain.MoodGrowth},
	"absurd":         {domain.MoodLaughs},

	// feels
	"tearjerker":    {domain.MoodFeels},
	"emotional":     {domain.MoodFeels},
	"bittersweet":   {domain.MoodFeels},
	"grief":         {domain.MoodFeels, domain.MoodGrowth},
	"heartbreaking": {domain.MoodFeels},
	"all the feels": {domain.MoodFeels},
	"ugly cry":      {domain.MoodFeels},
}

// paceTags maps a normalized tag to the paces it signals.
var paceTags = map[string][]domain.Pace{
	"fast paced":    {domain.PaceFast},
	"action packed": {domain.PaceFast},
	"unputdownable": {domain.PaceFast},
	"breakneck":     {domain.PaceFast},
	"propulsive":    {domain.PaceFast},

	"slow burn":        {domain.PaceSlow},
	"leisurely":        {domain.PaceSlow},
	"meandering":       {domain.PaceSlow},
	"quiet":            {domain.PaceSlow, domain.PaceSteady},
	"character driven": {domain.PaceSlow, domain.PaceSteady},

	"steady":      {domain.PaceSteady},
	"measured":    {domain.PaceSteady},
	"plot driven": {domain.PaceSteady, domain.PaceFast},
}

// weightTags maps a normalized tag to the emotional weights it signals.
var weightTags = map[string][]domain.Weight{
	"light read": {domain.WeightLight},
	"fluffy":     {domain.WeightLight},
	"breezy":     {domain.WeightLight},
	"easy read":  {domain.WeightLight},
	"low angst":  {domain.WeightLight},

	"heavy":           {domain.WeightHeavy},
	"grimdark":        {domain.WeightHeavy},
	"dark themes":     {domain.WeightHeavy},
	"devastating":     {domain.WeightHeavy},
	"high angst":      {domain.WeightHeavy},
	"trigger warning": {domain.WeightHeavy},

	"balanced":           {domain.WeightBalanced},
	"bittersweet ending": {domain.WeightBalanced, domain.WeightHeavy},
}

// worldTags maps a normalized tag to the world settings it signals.
var worldTags = map[string][]domain.World{
	"contemporary": {domain.WorldGrounded},
	"realistic":    {domain.WorldGrounded},
	"historical":   {domain.WorldGrounded},
	"true story":   {domain.WorldGrounded},
	"workplace":    {domain.WorldGrounded},

	"high fantasy":    {domain.WorldOtherworldly},
	"space opera":     {domain.WorldOtherworldly},
	"magic system":    {domain.WorldOtherworldly},
	"secondary world": {domain.WorldOtherworldly},
	"urban fantasy":   {domain.WorldOtherworldly, domain.WorldGrounded},
	"dystopian":       {domain.WorldOtherworldly},
	"mythology":       {domain.WorldOtherworldly},
}

// lengthTags maps a normalized tag to the length bands it signals.
var lengthTags = map[string][]domain.Length{
	"novella":     {domain.LengthShort},
	"quick read":  {domain.LengthShort},
	"short":       {domain.LengthShort},
	"doorstopper": {domain.LengthEpic},
	"epic length": {domain.LengthEpic},
	"saga":        {domain.LengthEpic, domain.LengthLong},
	"chunky":      {domain.LengthLong, domain.LengthEpic},
}

// tropeTags maps a normalized romance trope tag to the session flavors
// it serves. A trope match can itself establish the primary mood match
// when no stronger signal has.
var tropeTags = map[string][]string{
	"enemies to lovers":       {"enemies to lovers", "banter"},
	"friends to lovers":       {"friends to lovers", "slow burn"},
	"slow burn":               {"slow burn", "friends to lovers"},
	"grumpy sunshine":         {"grumpy sunshine", "banter"},
	"second chance":           {"second chance"},
	"fake dating":             {"fake dating", "enemies to lovers"},
	"forced proximity":        {"forced proximity", "enemies to lovers"},
	"marriage of convenience": {"marriage of convenience", "fake dating"},
	"love triangle":           {"love triangle"},
	"forbidden love":          {"forbidden love", "second chance"},
}

// moodKeywords drives genre/description inference per mood. Matching is
// bidirectional substring against normalized genres, and plain substring
// against the normalized description.
var moodKeywords = map[domain.Mood][]string{
	domain.MoodComfort: {"cozy", "heartwarming", "feel good", "sweet romance", "wholesome", "comfort", "gentle", "charming"},
	domain.MoodThrills: {"thriller", "suspense", "horror", "mystery", "crime", "espionage", "serial killer", "conspiracy"},
	domain.MoodEscape:  {"fantasy", "science fiction", "sci fi", "adventure", "epic", "space", "magic", "quest", "dragon"},
	domain.MoodGrowth:  {"self help", "memoir", "biography", "philosophy", "personal development", "psychology", "spirituality"},
	domain.MoodLaughs:  {"humor", "comedy", "satire", "funny", "romantic comedy", "parody", "hilarious"},
	domain.MoodFeels:   {"literary fiction", "drama", "emotional", "grief", "family saga", "tearjerker", "poignant", "romance"},
}

// paceKeywords drives pace inference. PaceSteady has no keyword set: a
// steady preference never produces an inference match or a mismatch.
var paceKeywords = map[domain.Pace][]string{
	domain.PaceFast: {"thriller", "action", "page turner", "fast paced", "heist", "race against time"},
	domain.PaceSlow: {"literary", "character study", "slow burn", "meditative", "contemplative", "quiet"},
}

// weightKeywords drives weight inference and mismatch detection.
var weightKeywords = map[domain.Weight][]string{
	domain.WeightLight: {"cozy", "romantic comedy", "humor", "feel good", "lighthearted", "charming"},
	domain.WeightHeavy: {"grimdark", "war", "tragedy", "abuse", "trauma", "dystopia", "holocaust", "addiction", "bleak"},
}

// worldKeywords drives world inference.
var worldKeywords = map[domain.World][]string{
	domain.WorldGrounded:     {"contemporary", "historical", "memoir", "true crime", "realistic", "biography", "literary fiction"},
	domain.WorldOtherworldly: {"fantasy", "science fiction", "sci fi", "paranormal", "space", "magic", "dystopia", "supernatural"},
}

// childrensKeywords flags juvenile material for sessions that exclude it.
var childrensKeywords = []string{"children", "childrens", "middle grade", "picture book", "early reader", "juvenile"}
