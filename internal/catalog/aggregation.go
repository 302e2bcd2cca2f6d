package catalog

import (
	"github.com/ashureev/querycamp/internal/challenge"
	"github.com/ashureev/querycamp/internal/engine"
)

// Aggregation challenges for intermediate to advanced learners.
var aggregationChallenges = []challenge.Challenge{
	{
		ID:    "agg_001",
		Title: "Count the Fruits",
		Description: `# Count the Fruits

Write a query to count the total number of fruits in the ` + "`fruits`" + ` table.

Select the count with alias ` + "`total_count`" + `.

**Hint:** Use the COUNT() aggregate function.
`,
		Category:   challenge.Aggregation,
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
					{"total_count": 5},
				},
			},
		},
		Hints: []string{
			"COUNT(column_name) counts non-null values",
			"COUNT(id) will count all rows since id is never null",
			"Use AS to create an alias for the result",
		},
		ExpectedQuery:      "SELECT COUNT(id) AS total_count FROM fruits",
		ConceptExplanation: "COUNT() is an aggregate function that counts rows. COUNT(column) counts non-null values, COUNT(*) counts all rows.",
	},
	{
		ID:    "agg_002",
		Title: "Average Weight",
		Description: `# Average Weight

Calculate the average weight of all fruits.

Select the result as ` + "`avg_weight`" + `.
`,
		Category:   challenge.Aggregation,
		Difficulty: challenge.Beginner,
		XPReward:   15,
		SetupSQL: []string{
			"CREATE TABLE fruits (id INTEGER PRIMARY KEY, name TEXT, weight INTEGER)",
			"INSERT INTO fruits (id, name, weight) VALUES (1, 'apple', 200)",
			"INSERT INTO fruits (id, name, weight) VALUES (2, 'orange', 140)",
			"INSERT INTO fruits (id, name, weight) VALUES (3, 'banana', 160)",
		},
		Rules: []challenge.ValidationRule{
			{Type: challenge.RowCount, ExpectedCount: 1},
		},
		Hints: []string{
			"AVG() calculates the average of a column",
			"AVG(weight) will give you the average weight",
			"Use AS for the alias",
		},
		ExpectedQuery: "SELECT AVG(weight) AS avg_weight FROM fruits",
	},
	{
		ID:    "agg_003",
		Title: "Employees per Department",
		Description: `# Employees per Department

Count how many employees are in each department.

Select ` + "`depid`" + ` and the count as ` + "`emp_count`" + `, grouped by department.
`,
		Category:   challenge.Aggregation,
		Difficulty: challenge.Intermediate,
		XPReward:   25,
		SetupSQL: []string{
			"CREATE TABLE employees (id INTEGER PRIMARY KEY, name TEXT, salary INTEGER, depid INTEGER)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (1, 'Alice', 100000, 1)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (2, 'Bob', 80000, 2)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (3, 'Carol', 90000, 1)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (4, 'Dave', 75000, 2)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (5, 'Eve', 85000, 1)",
		},
		Rules: []challenge.ValidationRule{
			{
				Type: challenge.ContainsRows,
				ExpectedRows: []engine.Row{
					{"depid": 1, "emp_count": 3},
					{"depid": 2, "emp_count": 2},
				},
			},
			{Type: challenge.RowCount, ExpectedCount: 2},
		},
		Hints: []string{
			"GROUP BY groups rows by column values",
			"Aggregate functions operate on each group",
			"SELECT depid, COUNT(id) ... GROUP BY depid",
		},
		ExpectedQuery:      "SELECT depid, COUNT(id) AS emp_count FROM employees GROUP BY depid",
		ConceptExplanation: "GROUP BY divides rows into groups based on column values. Aggregate functions then operate on each group separately.",
	},
	{
		ID:    "agg_004",
		Title: "Big Departments",
		Description: `# Big Departments

Find departments with more than 2 employees.

Select ` + "`depid`" + ` and ` + "`emp_count`" + `, but only show departments with emp_count > 2.

**Hint:** Use HAVING to filter groups.
`,
		Category:   challenge.Aggregation,
		Difficulty: challenge.Intermediate,
		XPReward:   30,
		SetupSQL: []string{
			"CREATE TABLE employees (id INTEGER PRIMARY KEY, name TEXT, depid INTEGER)",
			"INSERT INTO employees (id, name, depid) VALUES (1, 'Alice', 1)",
			"INSERT INTO employees (id, name, depid) VALUES (2, 'Bob', 2)",
			"INSERT INTO employees (id, name, depid) VALUES (3, 'Carol', 1)",
			"INSERT INTO employees (id, name, depid) VALUES (4, 'Dave', 2)",
			"INSERT INTO employees (id, name, depid) VALUES (5, 'Eve', 1)",
			"INSERT INTO employees (id, name, depid) VALUES (6, 'Frank', 3)",
			"INSERT INTO employees (id, name, depid) VALUES (7, 'Grace', 1)",
		},
		Rules: []challenge.ValidationRule{
			{
				Type: challenge.ExactMatch,
				ExpectedRows: []engine.Row{
					{"depid": 1, "emp_count": 4},
				},
			},
		},
		Hints: []string{
			"First GROUP BY depid",
			"HAVING filters groups (like WHERE for rows)",
			"HAVING COUNT(id) > 2",
		},
		ExpectedQuery:      "SELECT depid, COUNT(id) AS emp_count FROM employees GROUP BY depid HAVING COUNT(id) > 2",
		ConceptExplanation: "HAVING filters groups after aggregation, while WHERE filters rows before grouping. Use HAVING with aggregate conditions.",
	},
	{
		ID:    "agg_005",
		Title: "Department Statistics",
		Description: `# Department Statistics

For each department, calculate:
- Total employees (` + "`emp_count`" + `)
- Total salary (` + "`total_salary`" + `)
- Average salary (` + "`avg_salary`" + `)

Group by ` + "`depid`" + `.
`,
		Category:   challenge.Aggregation,
		Difficulty: challenge.Advanced,
		XPReward:   40,
		SetupSQL: []string{
			"CREATE TABLE employees (id INTEGER PRIMARY KEY, name TEXT, salary INTEGER, depid INTEGER)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (1, 'Alice', 100000, 1)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (2, 'Bob', 80000, 2)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (3, 'Carol', 90000, 1)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (4, 'Dave', 70000, 2)",
		},
		Rules: []challenge.ValidationRule{
			{Type: challenge.RowCount, ExpectedCount: 2},
			{Type: challenge.ColumnCheck, ExpectedColumns: []string{"depid", "emp_count", "total_salary", "avg_salary"}},
		},
		Hints: []string{
			"You can use multiple aggregate functions in one query",
			"COUNT, SUM, and AVG can all be in the SELECT",
			"All aggregate columns need aliases",
		},
		ExpectedQuery: "SELECT depid, COUNT(id) AS emp_count, SUM(salary) AS total_salary, AVG(salary) AS avg_salary FROM employees GROUP BY depid",
	},
}
