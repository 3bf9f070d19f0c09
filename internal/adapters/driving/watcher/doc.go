// Package watcher keeps the index in step with the content tree.
//
// The watcher listens for file system events below the content root,
// batches them over a short quiet period and then reloads the repository.
// Changed page files are re-indexed route by route in every index
// language; folder creation, removal and renames trigger a full rebuild
// because they can move whole subtrees.
package watcher
