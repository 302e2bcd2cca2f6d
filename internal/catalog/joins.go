package catalog

import (
	"github.com/ashureev/querycamp/internal/challenge"
	"github.com/ashureev/querycamp/internal/engine"
)

// JOIN challenges for intermediate learners.
//
// Note the aliased column names in the expected rows (e.name, d.name): the
// grading rules key on the column names the learner's query produces.
var joinChallenges = []challenge.Challenge{
	{
		ID:    "join_001",
		Title: "Employees and Departments",
		Description: `# Employees and Departments

You have two tables:
- ` + "`employees`" + `: id, name, salary, depid
- ` + "`department`" + `: depid, name

Write a query using INNER JOIN to show each employee's name alongside their department name.

Select columns as ` + "`e.name`" + ` (employee name) and ` + "`d.name`" + ` (department name).
`,
		Category:   challenge.Joins,
		Difficulty: challenge.Intermediate,
		XPReward:   25,
		SetupSQL: []string{
			"CREATE TABLE department (depid INTEGER PRIMARY KEY, name TEXT)",
			"INSERT INTO department (depid, name) VALUES (1, 'Engineering')",
			"INSERT INTO department (depid, name) VALUES (2, 'Sales')",
			"INSERT INTO department (depid, name) VALUES (3, 'Marketing')",
			"CREATE TABLE employees (id INTEGER PRIMARY KEY, name TEXT, salary INTEGER, depid INTEGER)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (1, 'Alice', 100000, 1)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (2, 'Bob', 80000, 2)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (3, 'Carol', 90000, 1)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (4, 'Dave', 75000, 2)",
		},
		Rules: []challenge.ValidationRule{
			{Type: challenge.RowCount, ExpectedCount: 4},
			{
				Type: challenge.ContainsRows,
				ExpectedRows: []engine.Row{
					{"e.name": "Alice", "d.name": "Engineering"},
					{"e.name": "Bob", "d.name": "Sales"},
					{"e.name": "Carol", "d.name": "Engineering"},
					{"e.name": "Dave", "d.name": "Sales"},
				},
			},
		},
		Hints: []string{
			"Use table aliases: employees e, department d",
			"JOIN connects tables using ON clause",
			"The join condition: e.depid = d.depid",
		},
		ExpectedQuery:      "SELECT e.name, d.name FROM employees e INNER JOIN department d ON e.depid = d.depid",
		ConceptExplanation: "INNER JOIN returns only rows where there's a match in both tables based on the join condition.",
	},
	{
		ID:    "join_002",
		Title: "All Employees with Departments",
		Description: `# All Employees with Departments

Some employees might not have a department assigned (depid could be NULL or reference a non-existent department).

Write a query using LEFT JOIN to show ALL employees and their department names.
Employees without a department should still appear with NULL for the department name.

Select ` + "`e.name`" + ` and ` + "`d.name`" + `.
`,
		Category:   challenge.Joins,
		Difficulty: challenge.Intermediate,
		XPReward:   30,
		SetupSQL: []string{
			"CREATE TABLE department (depid INTEGER PRIMARY KEY, name TEXT)",
			"INSERT INTO department (depid, name) VALUES (1, 'Engineering')",
			"INSERT INTO department (depid, name) VALUES (2, 'Sales')",
			"CREATE TABLE employees (id INTEGER PRIMARY KEY, name TEXT, salary INTEGER, depid INTEGER)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (1, 'Alice', 100000, 1)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (2, 'Bob', 80000, 2)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (3, 'Carol', 90000, 1)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (4, 'Eve', 70000, 99)",
		},
		Rules: []challenge.ValidationRule{
			{Type: challenge.RowCount, ExpectedCount: 4},
		},
		Hints: []string{
			"LEFT JOIN keeps all rows from the left table",
			"Use LEFT OUTER JOIN or just LEFT JOIN",
			"Unmatched rows will have NULL for right table columns",
		},
		ExpectedQuery:      "SELECT e.name, d.name FROM employees e LEFT JOIN department d ON e.depid = d.depid",
		ConceptExplanation: "LEFT JOIN returns all rows from the left table, and matched rows from the right table. NULL is used when there's no match.",
	},
	{
		ID:    "join_003",
		Title: "High-Paid Engineers",
		Description: `# High-Paid Engineers

Find all employees in the Engineering department who earn more than 85000.

Select ` + "`e.name`" + `, ` + "`e.salary`" + `, and ` + "`d.name`" + `.
`,
		Category:   challenge.Joins,
		Difficulty: challenge.Intermediate,
		XPReward:   30,
		SetupSQL: []string{
			"CREATE TABLE department (depid INTEGER PRIMARY KEY, name TEXT)",
			"INSERT INTO department (depid, name) VALUES (1, 'Engineering')",
			"INSERT INTO department (depid, name) VALUES (2, 'Sales')",
			"INSERT INTO department (depid, name) VALUES (3, 'Marketing')",
			"CREATE TABLE employees (id INTEGER PRIMARY KEY, name TEXT, salary INTEGER, depid INTEGER)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (1, 'Alice', 100000, 1)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (2, 'Bob', 80000, 2)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (3, 'Carol', 90000, 1)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (4, 'Dave', 75000, 1)",
			"INSERT INTO employees (id, name, salary, depid) VALUES (5, 'Eve', 95000, 2)",
		},
		Rules: []challenge.ValidationRule{
			{
				Type: challenge.ExactMatch,
				ExpectedRows: []engine.Row{
					{"e.name": "Alice", "e.salary": 100000, "d.name": "Engineering"},
					{"e.name": "Carol", "e.salary": 90000, "d.name": "Engineering"},
				},
			},
		},
		Hints: []string{
			"First JOIN the tables",
			"Then add WHERE to filter results",
			"You need two conditions: department name AND salary",
		},
		ExpectedQuery: "SELECT e.name, e.salary, d.name FROM employees e INNER JOIN department d ON e.depid = d.depid WHERE d.name = 'Engineering' AND e.salary > 85000",
	},
	{
		ID:    "join_004",
		Title: "All Combinations",
		Description: `# All Combinations

You have a ` + "`colors`" + ` table and a ` + "`sizes`" + ` table.

Write a query using CROSS JOIN to generate all possible color-size combinations.
Select ` + "`c.name`" + ` (color) and ` + "`s.name`" + ` (size).
`,
		Category:   challenge.Joins,
		Difficulty: challenge.Intermediate,
		XPReward:   25,
		SetupSQL: []string{
			"CREATE TABLE colors (id INTEGER PRIMARY KEY, name TEXT)",
			"INSERT INTO colors (id, name) VALUES (1, 'Red')",
			"INSERT INTO colors (id, name) VALUES (2, 'Blue')",
			"CREATE TABLE sizes (id INTEGER PRIMARY KEY, name TEXT)",
			"INSERT INTO sizes (id, name) VALUES (1, 'Small')",
			"INSERT INTO sizes (id, name) VALUES (2, 'Medium')",
			"INSERT INTO sizes (id, name) VALUES (3, 'Large')",
		},
		Rules: []challenge.ValidationRule{
			// 2 colors x 3 sizes
			{Type: challenge.RowCount, ExpectedCount: 6},
		},
		Hints: []string{
			"CROSS JOIN produces the Cartesian product",
			"No ON clause is needed for CROSS JOIN",
			"Result will have rows from left × rows from right",
		},
		ExpectedQuery:      "SELECT c.name, s.name FROM colors c CROSS JOIN sizes s",
		ConceptExplanation: "CROSS JOIN produces all possible combinations of rows from both tables. If table A has 2 rows and table B has 3 rows, result has 6 rows.",
	},
}
