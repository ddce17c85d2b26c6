package platform

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
)

// User is the host account that containers are aligned with.
type User struct {
	Name string
	UID  int
	GID  int
}

// CurrentUser returns the invoking user. The numeric ids come from the process,
// the name from the passwd database with $USER and $LOGNAME as fallbacks.
func CurrentUser() (User, error) {
	u := User{UID: os.Getuid(), GID: os.Getgid()}

	if current, err := user.Current(); err == nil && current.Username != "" {
		u.Name = current.Username
		return u, nil
	}

	for _, env := range []string{"USER", "LOGNAME"} {
		if name := os.Getenv(env); name != "" {
			u.Name = name
			return u, nil
		}
	}

	return u, fmt.Errorf("failed to determine username for uid %d", u.UID)
}

// UIDString returns the uid in decimal form, as printed by `id -u`.
func (u User) UIDString() string {
	return strconv.Itoa(u.UID)
}

// GIDString returns the gid in decimal form.
func (u User) GIDString() string {
	return strconv.Itoa(u.GID)
}
