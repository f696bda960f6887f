package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/posixfs/pkg/posixfs"
)

func newLsCommand() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List a directory",
		Long:  "List the entries of a directory on the volume",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}

			s, err := newSession()
			if err != nil {
				return err
			}

			if err := s.OpenDir(path); err != nil {
				return fmt.Errorf("failed to open directory %s: %w", path, err)
			}
			defer func() { _ = s.CloseDir() }()

			for {
				entry, err := s.ReadDir()
				if err == io.EOF {
					break
				}
				if err != nil {
					return fmt.Errorf("failed to read directory %s: %w", path, err)
				}
				if long {
					kind := "-"
					if entry.IsDir {
						kind = "d"
					}
					fmt.Printf("%s %8d %s\n", kind, entry.Size, entry.Name)
				} else {
					fmt.Println(entry.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show entry type and size")

	return cmd
}

func newCatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat [path...]",
		Short: "Print file contents",
		Long:  "Copy one or more files to standard output through the console descriptor",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}

			buf := make([]byte, 4096)
			for _, path := range args {
				fd, err := s.Open(path, posixfs.OpenReadOnly)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}
				for {
					n, err := s.Read(fd, buf)
					if err != nil {
						_ = s.Close(fd)
						return fmt.Errorf("failed to read %s: %w", path, err)
					}
					if n == 0 {
						break
					}
					if _, err := s.Write(posixfs.Stdout, buf[:n]); err != nil {
						_ = s.Close(fd)
						return err
					}
				}
				if err := s.Close(fd); err != nil {
					return fmt.Errorf("failed to close %s: %w", path, err)
				}
			}
			return nil
		},
	}

	return cmd
}

func newStatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat [path]",
		Short: "Show file information",
		Long:  "Show the name, size, kind, and modification stamp of a volume entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}

			info, err := s.Stat(args[0])
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", args[0], err)
			}

			kind := "file"
			if info.IsDir {
				kind = "directory"
			}
			fmt.Printf("Name: %s\n", info.Name)
			fmt.Printf("Kind: %s\n", kind)
			fmt.Printf("Size: %d\n", info.Size)
			fmt.Printf("Modified: %s\n", info.ModTime.Format("2006-01-02 15:04:05"))
			if info.ReadOnly {
				fmt.Printf("Read-only: yes\n")
			}
			return nil
		},
	}

	return cmd
}

func newWriteCommand() *cobra.Command {
	var appendTo bool

	cmd := &cobra.Command{
		Use:   "write [path]",
		Short: "Write standard input to a file",
		Long:  "Copy standard input to a volume file, replacing or appending to its contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			s, err := newSession()
			if err != nil {
				return err
			}

			flags := posixfs.OpenWriteOnly | posixfs.OpenCreate
			if appendTo {
				flags |= posixfs.OpenAppend
			} else {
				flags |= posixfs.OpenTruncate
			}
			fd, err := s.Open(path, flags)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}

			buf := make([]byte, 4096)
			for {
				n, err := os.Stdin.Read(buf)
				if n > 0 {
					if _, werr := s.Write(fd, buf[:n]); werr != nil {
						_ = s.Close(fd)
						return fmt.Errorf("failed to write %s: %w", path, werr)
					}
				}
				if err == io.EOF {
					break
				}
				if err != nil {
					_ = s.Close(fd)
					return err
				}
			}

			if err := s.Close(fd); err != nil {
				return fmt.Errorf("failed to close %s: %w", path, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&appendTo, "append", "a", false, "Append instead of replacing")

	return cmd
}

func newMkdirCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mkdir [path]",
		Short: "Create a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			if err := s.Mkdir(args[0]); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", args[0], err)
			}
			return nil
		},
	}

	return cmd
}

func newRmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm [path...]",
		Short: "Remove files or empty directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			for _, path := range args {
				if err := s.Unlink(path); err != nil {
					return fmt.Errorf("failed to remove %s: %w", path, err)
				}
			}
			return nil
		},
	}

	return cmd
}

func newMvCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mv [source] [dest]",
		Short: "Rename a file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			if err := s.Rename(args[0], args[1]); err != nil {
				return fmt.Errorf("failed to rename %s: %w", args[0], err)
			}
			return nil
		},
	}

	return cmd
}
