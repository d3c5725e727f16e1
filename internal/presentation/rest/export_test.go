package rest

var WriteJSON = writeJSON
