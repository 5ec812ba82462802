package model

// UnknownUser is shown in place of an owner name that is not in the user cache.
const UnknownUser = "Unknown User"

// User is a profile from the remote users collection.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Todo is an entry from the remote todos collection.
// Completed is only ever toggled locally.
type Todo struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

// TodoView is a Todo annotated with its owner's name for display.
// It is a projection; OwnerName is never written back onto the Todo.
type TodoView struct {
	Todo
	OwnerName string `json:"ownerName"`
}

// Post is an entry from the remote posts collection.
type Post struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}
