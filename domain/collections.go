package domain

const (
	CollectionSong = "songs"
)
const (
	CollectionAlbum = "albums"
)
const (
	CollectionUser = "users"
)
