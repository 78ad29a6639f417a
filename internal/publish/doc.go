// Package publish records regenerated artifacts in version control: it stages
// the working tree, commits under the bot identity, and pushes to the remote.
package publish
