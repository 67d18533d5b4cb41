package contextkeys

type contextKey string

const AdminEmailKey contextKey = "AdminEmail"
