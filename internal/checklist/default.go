package checklist

var defaultChecklist = Checklist{
	Title: DefaultTitle,
	Groups: []Group{
		{
			Name: "Core CS",
			Items: []Item{
				{ID: "core-os", Name: "Operating systems basics", Meta: "Processes, threads, scheduling", Status: StatusLearned},
				{ID: "core-dbms", Name: "DBMS fundamentals", Meta: "Normalization, indexing, transactions", Status: StatusLearned},
				{ID: "core-net", Name: "Computer networks", Meta: "TCP/IP, HTTP, DNS, latency", Status: StatusPending},
			},
		},
		{
			Name: "DSA",
			Items: []Item{
				{ID: "dsa-arrays", Name: "Arrays and linked lists", Meta: "Two pointers, complexity", Status: StatusLearned},
				{ID: "dsa-trees", Name: "Trees and graphs", Meta: "Traversal, shortest paths", Status: StatusPending},
				{ID: "dsa-dp", Name: "Dynamic programming", Meta: "Memoization, tabulation", Status: StatusPending},
			},
		},
		{
			Name: "Development",
			Items: []Item{
				{ID: "dev-git", Name: "Git and collaboration", Meta: "Branching, PRs, reviews", Status: StatusLearned},
				{ID: "dev-api", Name: "API development", Meta: "REST, auth, error handling", Status: StatusPending},
			},
		},
		{
			Name: "Interview prep",
			Items: []Item{
				{ID: "prep-behavioral", Name: "Behavioral stories", Meta: "STAR, impact, ownership", Status: StatusPending},
				{ID: "prep-mock", Name: "Mock interviews", Meta: "Weekly practice schedule", Status: StatusPending},
			},
		},
	},
}

// Default returns a fresh copy of the built-in checklist.
func Default() *Checklist {
	return defaultChecklist.Clone()
}
