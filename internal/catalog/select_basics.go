package catalog

import (
	"github.com/ashureev/querycamp/internal/challenge"
	"github.com/ashureev/querycamp/internal/engine"
)

// Basic SELECT and filtering challenges for beginners.
var selectBasicsChallenges = []challenge.Challenge{
	{
		ID:    "select_001",
		Title: "Select All Fruits",
		Description: `# Select All Fruits

You have a table called ` + "`fruits`" + ` with the following columns:
- ` + "`id`" + ` (INTEGER, PRIMARY KEY)
- ` + "`name`" + ` (TEXT)
- ` + "`avg_weight`" + ` (INTEGER)

Write a query to select the ` + "`name`" + ` and ` + "`avg_weight`" + ` of all fruits.
`,
		Category:   challenge.SelectBasics,
		Difficulty: challenge.Beginner,
		XPReward:   10,
		SetupSQL: []string{
			"CREATE TABLE fruits (id INTEGER PRIMARY KEY, name TEXT, avg_weight INTEGER)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (1, 'apple', 200)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (2, 'orange', 140)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (3, 'banana', 118)",
		},
		Rules: []challenge.ValidationRule{
			{Type: challenge.RowCount, ExpectedCount: 3},
			{Type: challenge.ColumnCheck, ExpectedColumns: []string{"name", "avg_weight"}},
		},
		Hints: []string{
			"Use SELECT followed by column names separated by commas",
			"The FROM clause specifies which table to query",
			"Example: SELECT col1, col2 FROM tablename",
		},
		ExpectedQuery:      "SELECT name, avg_weight FROM fruits",
		ConceptExplanation: "The SELECT statement retrieves data from tables. You specify which columns you want and which table to get them from.",
	},
	{
		ID:    "select_002",
		Title: "Sort the Fruits",
		Description: `# Sort the Fruits

Using the same ` + "`fruits`" + ` table, write a query to select ` + "`name`" + ` and ` + "`avg_weight`" + `,
sorted by ` + "`avg_weight`" + ` in ascending order (lightest first).

**Hint:** Use the ORDER BY clause.
`,
		Category:   challenge.SelectBasics,
		Difficulty: challenge.Beginner,
		XPReward:   15,
		SetupSQL: []string{
			"CREATE TABLE fruits (id INTEGER PRIMARY KEY, name TEXT, avg_weight INTEGER)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (1, 'apple', 200)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (2, 'orange', 140)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (3, 'banana', 118)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (4, 'grape', 5)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (5, 'watermelon', 10000)",
		},
		Rules: []challenge.ValidationRule{
			{
				Type: challenge.ExactMatch,
				ExpectedRows: []engine.Row{
					{"name": "grape", "avg_weight": 5},
					{"name": "banana", "avg_weight": 118},
					{"name": "orange", "avg_weight": 140},
					{"name": "apple", "avg_weight": 200},
					{"name": "watermelon", "avg_weight": 10000},
				},
				OrderMatters: true,
			},
		},
		Hints: []string{
			"Add ORDER BY at the end of your SELECT statement",
			"ORDER BY column_name ASC sorts in ascending order",
			"ASC is the default, so you can omit it",
		},
		ExpectedQuery:      "SELECT name, avg_weight FROM fruits ORDER BY avg_weight",
		ConceptExplanation: "ORDER BY sorts your results. ASC (ascending) is the default. Use DESC for descending order.",
	},
	{
		ID:    "select_003",
		Title: "Top 3 Heaviest",
		Description: `# Top 3 Heaviest Fruits

Write a query to find the 3 heaviest fruits.
Select ` + "`name`" + ` and ` + "`avg_weight`" + `, sorted by weight descending, limited to 3 results.
`,
		Category:   challenge.SelectBasics,
		Difficulty: challenge.Beginner,
		XPReward:   15,
		SetupSQL: []string{
			"CREATE TABLE fruits (id INTEGER PRIMARY KEY, name TEXT, avg_weight INTEGER)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (1, 'apple', 200)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (2, 'orange', 140)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (3, 'banana', 118)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (4, 'grape', 5)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (5, 'watermelon', 10000)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (6, 'pineapple', 1000)",
		},
		Rules: []challenge.ValidationRule{
			{
				Type: challenge.ExactMatch,
				ExpectedRows: []engine.Row{
					{"name": "watermelon", "avg_weight": 10000},
					{"name": "pineapple", "avg_weight": 1000},
					{"name": "apple", "avg_weight": 200},
				},
				OrderMatters: true,
			},
		},
		Hints: []string{
			"Use ORDER BY with DESC to sort heaviest first",
			"Use LIMIT to restrict the number of results",
			"LIMIT comes after ORDER BY",
		},
		ExpectedQuery: "SELECT name, avg_weight FROM fruits ORDER BY avg_weight DESC LIMIT 3",
	},
	{
		ID:    "select_004",
		Title: "Find the Apple",
		Description: `# Find the Apple

Write a query to find the fruit named 'apple'.
Select the ` + "`id`" + `, ` + "`name`" + `, and ` + "`avg_weight`" + ` columns.

**Hint:** Use the WHERE clause to filter rows.
`,
		Category:   challenge.Filtering,
		Difficulty: challenge.Beginner,
		XPReward:   15,
		SetupSQL: []string{
			"CREATE TABLE fruits (id INTEGER PRIMARY KEY, name TEXT, avg_weight INTEGER)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (1, 'apple', 200)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (2, 'orange', 140)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (3, 'banana', 118)",
		},
		Rules: []challenge.ValidationRule{
			{
				Type: challenge.ExactMatch,
				ExpectedRows: []engine.Row{
					{"id": 1, "name": "apple", "avg_weight": 200},
				},
			},
		},
		Hints: []string{
			"WHERE clause filters which rows are returned",
			"Use = for equality comparison",
			"Text values need single quotes: 'apple'",
		},
		ExpectedQuery:      "SELECT id, name, avg_weight FROM fruits WHERE name = 'apple'",
		ConceptExplanation: "The WHERE clause filters rows based on conditions. Only rows where the condition is true are included in the results.",
	},
	{
		ID:    "select_005",
		Title: "Light Fruits",
		Description: `# Light Fruits

Find all fruits that weigh less than 150 grams.
Select ` + "`name`" + ` and ` + "`avg_weight`" + `.
`,
		Category:   challenge.Filtering,
		Difficulty: challenge.Beginner,
		XPReward:   15,
		SetupSQL: []string{
			"CREATE TABLE fruits (id INTEGER PRIMARY KEY, name TEXT, avg_weight INTEGER)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (1, 'apple', 200)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (2, 'orange', 140)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (3, 'banana', 118)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (4, 'grape', 5)",
			"INSERT INTO fruits (id, name, avg_weight) VALUES (5, 'watermelon', 10000)",
		},
		Rules: []challenge.ValidationRule{
			{
				Type: challenge.ContainsRows,
				ExpectedRows: []engine.Row{
					{"name": "orange", "avg_weight": 140},
					{"name": "banana", "avg_weight": 118},
					{"name": "grape", "avg_weight": 5},
				},
			},
			{Type: challenge.RowCount, ExpectedCount: 3},
		},
		Hints: []string{
			"Use < for less than comparison",
			"Numbers don't need quotes",
			"WHERE avg_weight < 150",
		},
		ExpectedQuery: "SELECT name, avg_weight FROM fruits WHERE avg_weight < 150",
	},
}
