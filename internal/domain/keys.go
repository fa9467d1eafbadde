package domain

// KeyPrefix namespaces all guestchat keys in the store.
const KeyPrefix = "guestchat:"
