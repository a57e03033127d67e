package domain

// AppTitle is the user-facing application name.
const AppTitle = "tumblrpost"
